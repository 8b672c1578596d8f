package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"vidmatch/backend/internal/config"
	"vidmatch/backend/internal/moderation"
	"vidmatch/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	storageSvc := storage.NewStorageService(db, rdb)
	modSvc := moderation.NewService(storageSvc)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "ban":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin ban <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := os.Args[2]
		var hours int
		if len(os.Args) > 3 {
			var err error
			hours, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := banUser(storageSvc, userID, hours); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %s has been banned.\n", userID)
	case "unban":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unban <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := unbanUser(storageSvc, userID); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %s has been unbanned.\n", userID)
	case "confirm-report":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin confirm-report <report_id>")
			os.Exit(1)
		}
		reportID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid report ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := modSvc.ConfirmReport(uint(reportID)); err != nil {
			log.Fatalf("Error confirming report: %v", err)
		}
		fmt.Printf("Report %d has been confirmed.\n", reportID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func banUser(s storage.Storage, userID string, hours int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	duration := time.Duration(hours) * time.Hour
	user.IsBlocked = true
	if hours > 0 {
		user.BlockEndTime = time.Now().Add(duration).Unix()
	}
	user.LastBanDate = time.Now().Unix()
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.SetBan(userID, duration)
}

func unbanUser(s storage.Storage, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	user.BlockEndTime = 0
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.ClearBan(userID)
}
