package lms

import (
	"context"
	"errors"
	"fmt"

	"github.com/litclass/litclass-lms/internal/gateway"
	"github.com/litclass/litclass-lms/internal/session"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and persists the session. An empty user in a
// successful envelope still counts as a failure, matching the backend's
// habit of answering ok with no data on bad credentials.
func (s *Service) Login(ctx context.Context, username, password string) (session.User, error) {
	var u session.User
	if err := s.gw.CallInto(ctx, "auth.login", loginPayload{Username: username, Password: password}, &u); err != nil {
		return session.User{}, err
	}
	if u.ID == "" {
		return session.User{}, &gateway.APIError{Action: "auth.login", Message: "empty login response"}
	}
	s.gw.SetToken(u.Token)
	if err := s.sessions.Set(u); err != nil {
		return session.User{}, fmt.Errorf("persist session: %w", err)
	}
	return u, nil
}

// Logout clears the cached session. No server call is made; the protocol
// has no invalidation action.
func (s *Service) Logout() error {
	s.gw.SetToken("")
	return s.sessions.Clear()
}

// CurrentUser resolves the cached session and arms the gateway token.
func (s *Service) CurrentUser() (session.User, error) {
	u, err := s.sessions.Current()
	if err != nil {
		return session.User{}, err
	}
	s.gw.SetToken(u.Token)
	return u, nil
}

// Setup asks the backend to bootstrap its storage and seed accounts.
func (s *Service) Setup(ctx context.Context) error {
	_, err := s.gw.Call(ctx, "system.setup", nil)
	return err
}

// FriendlyLoginError maps a login failure to the student-facing message.
// Teachers debugging the deployment get the raw error instead.
func FriendlyLoginError(err error) string {
	if errors.Is(err, gateway.ErrUnavailable) {
		return "Không thể kết nối máy chủ. Vui lòng kiểm tra mạng và thử lại."
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return "Sai tên đăng nhập hoặc mật khẩu."
	}
	return "Đăng nhập thất bại. Vui lòng thử lại."
}
