package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"groupmeet-backend/internal/config"
	"groupmeet-backend/internal/database"
	"groupmeet-backend/internal/database/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match the YAML fixture
type GroupData struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members,omitempty"`
}

type GroupsFile struct {
	Groups []GroupData `yaml:"groups"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := loadGroupsFromYAML(db, filepath.Join("scripts", "data", "groups.yaml")); err != nil {
		log.Fatalf("Failed to load groups: %v", err)
	}

	log.Println("Initial data loaded successfully")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadGroupsFromYAML(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No fixture at %s, nothing to load", path)
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var file GroupsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	groupsCreated := 0
	membershipsCreated := 0
	for _, groupData := range file.Groups {
		group, created, err := createGroup(db, groupData)
		if err != nil {
			return fmt.Errorf("create group %s: %w", groupData.Name, err)
		}
		if created {
			groupsCreated++
		}

		for _, userID := range groupData.Members {
			created, err := createMembership(db, group.ID, userID)
			if err != nil {
				return fmt.Errorf("create membership %s/%s: %w", groupData.Name, userID, err)
			}
			if created {
				membershipsCreated++
			}
		}
	}

	log.Printf("Groups: %d created, %d total", groupsCreated, len(file.Groups))
	log.Printf("Memberships: %d created", membershipsCreated)
	return nil
}

// createGroup finds a group by name or creates it. Reruns of the loader do
// not duplicate groups.
func createGroup(db *gorm.DB, data GroupData) (*models.Group, bool, error) {
	var existing models.Group
	err := db.Where("name = ?", data.Name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	group := &models.Group{
		Name:        data.Name,
		Description: data.Description,
	}
	if err := db.Create(group).Error; err != nil {
		return nil, false, err
	}
	return group, true, nil
}

// createMembership inserts a membership row, treating the composite key
// violation as already-loaded.
func createMembership(db *gorm.DB, groupID uuid.UUID, userID string) (bool, error) {
	membership := &models.GroupMembership{GroupID: groupID, UserID: userID}
	err := db.Create(membership).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	return false, err
}
