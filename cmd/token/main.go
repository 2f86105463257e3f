// Command token prints an admin bearer token signed with JWT_SECRET.
//
//	go run ./cmd/token -sub ops@example.com
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/nekogravitycat/cabin-booking-backend/internal/auth"
	"github.com/nekogravitycat/cabin-booking-backend/internal/config"
)

func main() {
	subject := flag.String("sub", "admin", "token subject, recorded in request logs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL).GenerateAccessToken(*subject, auth.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	fmt.Println(token)
}
