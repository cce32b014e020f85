// Command seed-admin creates the default back-office account when the
// admins table is empty. Safe to run repeatedly.
package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"layanan-publik-api/config"
	"layanan-publik-api/models"
	"layanan-publik-api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	username := os.Getenv("SEED_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		log.Printf("Warning: weak seed password: %s", msg)
	}

	var existing models.Admin
	if err := config.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		log.Printf("Admin %q already exists (id=%d), nothing to do", existing.Username, existing.AdminID)
		return
	}

	now := time.Now()
	admin := models.Admin{
		Username:  username,
		Email:     "admin@example.com",
		FullName:  "Administrator",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin: ", err)
	}

	log.Printf("Default admin created (username=%s)", admin.Username)
	log.Println("IMPORTANT: change the default password after first login")
}
