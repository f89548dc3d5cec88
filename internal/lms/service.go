// Package lms is the typed client over the gateway protocol. Every action
// in the backend catalogue has one method here; payload and response
// shapes are validated and normalized at this boundary so the rest of the
// program never re-checks array-ness or null-safety.
package lms

import (
	"strings"

	"github.com/litclass/litclass-lms/internal/gateway"
	"github.com/litclass/litclass-lms/internal/session"
)

// Service bundles the gateway client with the session store.
type Service struct {
	gw       *gateway.Client
	sessions *session.Store
}

func NewService(gw *gateway.Client, sessions *session.Store) *Service {
	return &Service{gw: gw, sessions: sessions}
}

// isNew reports whether an id marks a record that has never been
// persisted: empty, or carrying one of the client-side draft prefixes.
// Saves route to the .add action for these and .update otherwise.
func isNew(id string) bool {
	return id == "" || strings.HasPrefix(id, "new_") || strings.HasPrefix(id, "temp_")
}

// idPayload is the {id} payload shared by all .remove actions.
type idPayload struct {
	ID string `json:"id"`
}
