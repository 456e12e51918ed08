package main

import (
	"log"
	"os"

	"doc-checker-be/internal/model"
	"doc-checker-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Demo Account...")

	email := getEnv("SEED_EMAIL", "demo@example.com")
	password := getEnv("SEED_PASSWORD", "password123")

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("User '%s' already exists, skipping...", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing seed password: %v", err)
	}
	hashStr := string(hash)

	teamId := uuid.New()
	user := model.User{
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     "Demo User",
		Role:         "user",
		Status:       "active",
		TeamId:       &teamId,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error creating seed user: %v", err)
	}
	log.Printf("Created user: %s", email)

	members := []model.TeamMember{
		{TeamId: teamId, Name: "Demo User", Email: email, Role: "admin"},
		{TeamId: teamId, Name: "Riley Chen", Email: "riley@example.com", Role: "editor"},
		{TeamId: teamId, Name: "Sam Okafor", Email: "sam@example.com", Role: "viewer"},
	}
	for _, m := range members {
		if err := db.Create(&m).Error; err != nil {
			log.Printf("Error creating team member '%s': %v", m.Email, err)
		} else {
			log.Printf("Created team member: %s (%s)", m.Name, m.Role)
		}
	}

	log.Println("Seeding completed!")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
