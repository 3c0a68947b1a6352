// Command token-generator mints a development access token for a user so the
// API can be exercised without the identity provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/config"
	"github.com/phrazzld/leitner-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("token-generator", flag.ContinueOnError)
	userFlag := fs.String("user", "", "user id to embed in the token (default: random)")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID := uuid.New()
	if *userFlag != "" {
		id, err := uuid.Parse(*userFlag)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
		userID = id
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	svc, err := auth.NewJWTService(cfg.Auth, clock.System())
	if err != nil {
		return err
	}
	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		return err
	}

	fmt.Printf("user_id: %s\nexpires_in_minutes: %d\ntoken: %s\n", userID, cfg.Auth.TokenLifetimeMinutes, token)
	return nil
}
