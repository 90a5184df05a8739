package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stageready/config"
	"stageready/db"
	"stageready/services"
)

// Bootstraps the first admin account: a user document with role=admin and a
// bcrypt password hash. The console's /admin/setup endpoint does the same
// over HTTP but closes once any admin exists; this command is for operators
// with database access.
func main() {
	email := flag.String("email", "", "Admin email (required)")
	password := flag.String("password", "", "Admin password (required)")
	firstName := flag.String("first", "", "Admin first name (required)")
	lastName := flag.String("last", "", "Admin last name")
	configPath := flag.String("config", "./config/config.yml", "Path to config file")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" {
		fmt.Println("Error: email, password, and first name are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.MongoClient.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := services.NewRepository(db.MongoDatabase)

	existing, _, err := repo.GetUserByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("Failed to check for existing user: %v", err)
	}
	if existing != nil {
		log.Fatalf("A user with email %s already exists", *email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	id, err := repo.CreateAdminUser(ctx, *email, string(hashed), *firstName, *lastName)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin account created\n  id:    %s\n  email: %s\n", id, *email)
}
