package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Abdellatifemara/Forma-sub000/internal/auth"
)

func main() {
	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// connect to database
	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	dbPool, err := pgxpool.New(context.Background(), dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()

	// create or find test user
	testEmail := "test@forma.fit"
	tier := "PREMIUM_PLUS"
	if len(os.Args) > 1 {
		tier = os.Args[1]
	}

	var userID string
	err = dbPool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", testEmail).Scan(&userID)
	if err != nil {
		// create test user
		userID = uuid.New().String()
		_, err = dbPool.Exec(ctx, `
			INSERT INTO users (id, email, first_name, language, fitness_level, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		`, userID, testEmail, "Test", "en", "INTERMEDIATE")
		if err != nil {
			log.Fatalf("Failed to create test user: %v", err)
		}
		fmt.Printf("✅ Created test user: %s (ID: %s)\n", testEmail, userID)
	} else {
		fmt.Printf("✅ Using existing test user (ID: %s)\n", userID)
	}

	// pin the subscription tier so pipeline stages are reachable
	_, err = dbPool.Exec(ctx, `
		INSERT INTO subscriptions (user_id, tier)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET tier = EXCLUDED.tier
	`, userID, tier)
	if err != nil {
		log.Fatalf("Failed to set subscription tier: %v", err)
	}
	fmt.Printf("✅ Subscription tier: %s\n", tier)

	// generate JWT token
	token, err := auth.GenerateJWT(userID, testEmail)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s\"\n", token)
}
