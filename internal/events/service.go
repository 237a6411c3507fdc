// Package events implements the event CRUD service and its HTTP handlers.
package events

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mjoubert/agenda-api/internal/apperr"
	"github.com/mjoubert/agenda-api/internal/models"
)

// Service executes event operations against the relational store.
type Service struct {
	db *gorm.DB
}

// NewService builds an event service on the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Filters narrows a listing. StartDate and EndDate bound the event's
// startDate inclusively and only apply when both are set.
type Filters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// Create persists a new event after verifying the owning user exists.
// This is the single authoritative referential check; the route layer only
// translates the resulting error.
func (s *Service) Create(ctx context.Context, in models.EventCreate) (*models.Event, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Reference("user %s does not exist", in.UserID)
		}
		return nil, apperr.Internal("failed to verify user", err)
	}

	event := models.Event{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Location:    in.Location,
		IsAllDay:    in.IsAllDay,
		Color:       in.Color,
		Status:      in.Status,
		UserID:      in.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, apperr.Internal("failed to create event", err)
	}

	event.User = publicUser(&user)
	return &event, nil
}

// GetAll lists events, optionally scoped to a user, an inclusive startDate
// window and/or a status, ordered ascending by startDate.
func (s *Service) GetAll(ctx context.Context, userID string, f Filters) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Order("start_date ASC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if f.StartDate != nil && f.EndDate != nil {
		q = q.Where("start_date >= ? AND start_date <= ?", *f.StartDate, *f.EndDate)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, apperr.Internal("failed to list events", err)
	}
	if err := s.attachOwners(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID fetches one event with its owner summary.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		return nil, apperr.Internal("failed to fetch event", err)
	}
	if err := s.attachOwner(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update applies only the fields present in the request to an existing
// event. The temporal invariant is checked against the merged values so a
// body that changes only one of the two dates cannot invert the pair.
func (s *Service) Update(ctx context.Context, id string, in models.EventUpdate) (*models.Event, error) {
	var existing models.Event
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event %s not found", id)
		}
		return nil, apperr.Internal("failed to fetch event", err)
	}

	start := existing.StartDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	end := existing.EndDate
	if in.EndDateSet {
		end = in.EndDate
	}
	if end != nil && !end.After(start) {
		return nil, apperr.Validation("endDate must be after startDate")
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.DescriptionSet {
		updates["description"] = in.Description
	}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EndDateSet {
		updates["end_date"] = in.EndDate
	}
	if in.LocationSet {
		updates["location"] = in.Location
	}
	if in.IsAllDay != nil {
		updates["is_all_day"] = *in.IsAllDay
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("failed to update event", err)
		}
	}

	var updated models.Event
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		return nil, apperr.Internal("failed to reload event", err)
	}
	if err := s.attachOwner(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes one event.
func (s *Service) Delete(ctx context.Context, id string) error {
	var existing models.Event
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("event %s not found", id)
		}
		return apperr.Internal("failed to fetch event", err)
	}
	if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
		return apperr.Internal("failed to delete event", err)
	}
	return nil
}

// GetByDateRange lists one user's events whose startDate lies in the
// inclusive [start, end] window, ordered ascending by startDate.
func (s *Service) GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Event, error) {
	return s.GetAll(ctx, userID, Filters{StartDate: &start, EndDate: &end})
}

// publicUser strips a user down to the fields exposed alongside an event.
func publicUser(u *models.User) *models.UserSummary {
	return &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (s *Service) attachOwner(ctx context.Context, event *models.Event) error {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&user, "id = ?", event.UserID).Error; err != nil {
		return apperr.Internal("failed to fetch event owner", err)
	}
	event.User = publicUser(&user)
	return nil
}

// attachOwners resolves the owner summaries for a listing in one query.
func (s *Service) attachOwners(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].UserID)
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "name", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return apperr.Internal("failed to fetch event owners", err)
	}
	byID := make(map[string]*models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = publicUser(&users[i])
	}
	for i := range events {
		events[i].User = byID[events[i].UserID]
	}
	return nil
}
