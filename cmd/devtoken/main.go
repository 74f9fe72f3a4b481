// Command devtoken mints a signed JWT for local development, so the
// admin and internal endpoints can be exercised without the platform's
// identity service running.
//
//	go run ./cmd/devtoken -user 1 -role admin
//	go run ./cmd/devtoken -user 0 -role service -ttl 8h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"arena/internal/config"
	"arena/internal/models"
	"arena/internal/utils"
)

func main() {
	userID := flag.Uint("user", 1, "user id to embed in the token")
	email := flag.String("email", "dev@example.com", "email claim")
	role := flag.String("role", models.RoleUser, "role claim: user, admin or service")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	switch *role {
	case models.RoleUser, models.RoleAdmin, models.RoleService:
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(1)
	}

	config.LoadEnv()
	secret := []byte(config.GetEnv("JWT_SECRET", "dev-secret"))

	token, err := utils.SignToken(*userID, *email, *role, secret, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
