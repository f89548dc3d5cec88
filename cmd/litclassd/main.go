package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/litclass/litclass-lms/internal/config"
	"github.com/litclass/litclass-lms/internal/db"
	"github.com/litclass/litclass-lms/internal/devgateway"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := devgateway.NewStore(dbh, db.Driver(cfg.DBDriver))
	if seeded, err := store.SeedTeacher(ctx, uuid.NewString(), cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatalf("seed teacher: %v", err)
	} else if seeded {
		log.Printf("seeded teacher account %q", cfg.AdminUser)
	}

	authSvc := devgateway.NewAuthService(cfg.AuthSecret)
	srv := devgateway.NewServer(store, authSvc, cfg.AdminUser, cfg.AdminPass)

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, srv.Router(cfg.CORSOrigins)))
}
