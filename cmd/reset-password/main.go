package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/config"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/database"
	"kkp-asta/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file")
	email := flag.String("email", "", "account to reset (required)")
	password := flag.String("password", "", "new password, at least 6 characters (required)")
	flag.Parse()
	defer logger.Sync()

	if *email == "" || len(*password) < 6 {
		flag.Usage()
		logger.Fatal(errors.New("email and a password of at least 6 characters are required"))
	}

	// 1. Load Env
	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Fatal(err)
	}

	// 2. Setup Database
	db, err := database.Connect(database.Options{DSN: cfg.DSN(), Debug: cfg.DBDebug})
	if err != nil {
		logger.Fatal(err)
	}
	users := repository.NewUserRepo(db)
	ctx := context.Background()

	// 3. Find user
	user, err := users.FindByEmail(ctx, *email)
	if errors.Is(err, apperror.ErrNotFound) {
		logger.Fatal(fmt.Errorf("user %s not found", *email))
	}
	if err != nil {
		logger.Fatal(err)
	}

	// 4. Hash and store the new password
	var hashed model.User
	if err := hashed.SetPassword(*password); err != nil {
		logger.Fatal(err)
	}
	if err := users.UpdatePassword(ctx, user.ID, hashed.Password); err != nil {
		logger.Fatal(err)
	}

	logger.Info("password reset", "email", user.Email, "role", user.Role)
}
