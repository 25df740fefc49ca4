package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/dog-registry/config"
	"github.com/oksasatya/dog-registry/internal/domain/entity"
	"github.com/oksasatya/dog-registry/internal/domain/repository"
	"github.com/oksasatya/dog-registry/internal/infrastructure/sqlite"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	db, err := sqlite.Open(cfg.DBPath, 1, cfg.DBLogLevel, logger)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = sqlite.Close(db) }()
	if err := sqlite.Initialize(ctx, db, logger); err != nil {
		log.Fatalf("failed to create tables: %v", err)
	}

	users := sqlite.NewUserRepository(db)
	dogs := sqlite.NewDogRepository(db)

	email := "demo@example.com"
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	username := "demoUser"

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hash, err := helpers.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u = &entity.User{Username: username, Email: email, Password: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": email, "username": username}).Info("seeded user")
	case err != nil:
		log.Fatalf("failed to look up user: %v", err)
	default:
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": email}).Info("user already present")
	}

	existing, err := dogs.List(ctx)
	if err != nil {
		log.Fatalf("failed to list dogs: %v", err)
	}
	if len(existing) > 0 {
		logger.WithField("count", len(existing)).Info("dogs already seeded")
		return
	}
	for _, d := range []entity.Dog{
		{Name: "Rex", Owner: username, Breed: "German Shepherd"},
		{Name: "Bella", Owner: username, Breed: "Beagle"},
	} {
		d := d
		if err := dogs.Create(ctx, &d); err != nil {
			log.Fatalf("failed to seed dog %s: %v", d.Name, err)
		}
		logger.WithFields(logrus.Fields{"dog_id": d.ID, "name": d.Name, "breed": d.Breed}).Info("seeded dog")
	}
}
