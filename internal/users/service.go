// Package users implements the user CRUD service and its HTTP handlers.
package users

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mjoubert/agenda-api/internal/apperr"
	"github.com/mjoubert/agenda-api/internal/models"
)

// Service executes user operations against the relational store.
type Service struct {
	db *gorm.DB
}

// NewService builds a user service on the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EventSummary is the lightweight event slice embedded in user listings.
type EventSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	Status    string    `json:"status"`
}

// UserWithSummaries is a listing row: the user plus summaries of each event
// they own. The outer Events field shadows the model's full association.
type UserWithSummaries struct {
	models.User
	Events []EventSummary `json:"events"`
}

// Create registers a new user, rejecting duplicate emails. The store's
// unique index backstops the pre-check under concurrent creates.
func (s *Service) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("a user with email %s already exists", in.Email)
	}

	user := models.User{Email: in.Email, Name: in.Name}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("a user with email %s already exists", in.Email)
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	return &user, nil
}

// GetAll lists users newest first, each with summaries of their events
// ordered ascending by startDate.
func (s *Service) GetAll(ctx context.Context) ([]UserWithSummaries, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	if len(users) == 0 {
		return []UserWithSummaries{}, nil
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}

	type summaryRow struct {
		ID        string
		Title     string
		StartDate time.Time
		Status    string
		UserID    string
	}
	var rows []summaryRow
	if err := s.db.WithContext(ctx).Model(&models.Event{}).
		Select("id", "title", "start_date", "status", "user_id").
		Where("user_id IN ?", ids).
		Order("start_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal("failed to list user events", err)
	}

	byUser := make(map[string][]EventSummary, len(users))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], EventSummary{
			ID:        r.ID,
			Title:     r.Title,
			StartDate: r.StartDate,
			Status:    r.Status,
		})
	}

	out := make([]UserWithSummaries, 0, len(users))
	for i := range users {
		summaries := byUser[users[i].ID]
		if summaries == nil {
			summaries = []EventSummary{}
		}
		out = append(out, UserWithSummaries{User: users[i], Events: summaries})
	}
	return out, nil
}

// GetByID fetches one user with their full events ordered ascending by
// startDate.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Events", func(tx *gorm.DB) *gorm.DB { return tx.Order("start_date ASC") }).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, apperr.Internal("failed to fetch user", err)
	}
	return &user, nil
}

// GetByEmail is a soft lookup: absence returns (nil, nil), not an error.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Events", func(tx *gorm.DB) *gorm.DB { return tx.Order("start_date ASC") }).
		First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("failed to fetch user by email", err)
	}
	return &user, nil
}

// Update applies only the fields present in the request, rejecting an email
// change that collides with another user.
func (s *Service) Update(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, apperr.Internal("failed to fetch user", err)
	}

	updates := map[string]interface{}{}
	if in.Email != nil && *in.Email != existing.Email {
		other, err := s.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, apperr.Conflict("a user with email %s already exists", *in.Email)
		}
		updates["email"] = *in.Email
	}
	if in.NameSet {
		updates["name"] = in.Name
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) && in.Email != nil {
				return nil, apperr.Conflict("a user with email %s already exists", *in.Email)
			}
			return nil, apperr.Internal("failed to update user", err)
		}
	}

	var updated models.User
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		return nil, apperr.Internal("failed to reload user", err)
	}
	return &updated, nil
}

// Delete removes one user; their events go with them via the cascading
// foreign key.
func (s *Service) Delete(ctx context.Context, id string) error {
	var existing models.User
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %s not found", id)
		}
		return apperr.Internal("failed to fetch user", err)
	}
	if err := s.db.WithContext(ctx).Select("Events").Delete(&existing).Error; err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	return nil
}
