package database

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/mjoubert/agenda-api/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB, logger *slog.Logger) error {
	var existingUser models.User
	result := db.Where("email = ?", "dev@agenda.local").First(&existingUser)
	if result.Error == nil {
		logger.Info("Seed data already exists, skipping")
		return nil
	}

	name := "Dev User"
	user := models.User{
		Email: "dev@agenda.local",
		Name:  &name,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	meetingDesc := "Weekly team sync"
	meetingLoc := "Room 204"
	meetingEnd := now.Add(24*time.Hour + 90*time.Minute)
	meeting := models.Event{
		Title:       "Team meeting",
		Description: &meetingDesc,
		StartDate:   now.Add(24 * time.Hour),
		EndDate:     &meetingEnd,
		Location:    &meetingLoc,
		Color:       models.DefaultEventColor,
		Status:      models.EventStatusScheduled,
		UserID:      user.ID,
	}
	if err := db.Create(&meeting).Error; err != nil {
		return err
	}

	checkupDesc := "Routine checkup"
	checkupEnd := now.Add(72*time.Hour + time.Hour)
	checkup := models.Event{
		Title:       "Doctor appointment",
		Description: &checkupDesc,
		StartDate:   now.Add(72 * time.Hour),
		EndDate:     &checkupEnd,
		Color:       "#ef4444",
		Status:      models.EventStatusConfirmed,
		UserID:      user.ID,
	}
	if err := db.Create(&checkup).Error; err != nil {
		return err
	}

	logger.Info("Seeded dev data", "users", 1, "events", 2)
	return nil
}
