package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/config"
	"github.com/learnhub-platform/learnhub-api/database"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Warnf("Failed to load .env: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("LearnHub - Database Seeding")
	fmt.Println(separator)

	created, err := database.NewSeeder(store.DB()).SeedDefaultUsers(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Created %d of %d default users\n", created, len(database.DefaultUsers))
	for _, u := range database.DefaultUsers {
		fmt.Printf("  %-8s %-30s %s\n", u.Role, u.Email, u.Username)
	}
	fmt.Println(separator)
}
