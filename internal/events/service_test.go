package events

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjoubert/agenda-api/internal/apperr"
	"github.com/mjoubert/agenda-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Event{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	name := "Test User"
	user := models.User{Email: email, Name: &name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func ts(day, hour int) time.Time {
	return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestCreateEvent(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	user := createTestUser(t, db, "owner@example.com")

	desc := "quarterly review"
	end := ts(10, 11)
	event, err := svc.Create(context.Background(), models.EventCreate{
		Title:       "Review",
		Description: &desc,
		StartDate:   ts(10, 9),
		EndDate:     &end,
		IsAllDay:    false,
		Color:       models.DefaultEventColor,
		Status:      models.EventStatusScheduled,
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if event.ID == "" {
		t.Error("expected a generated id")
	}
	if event.Title != "Review" || *event.Description != desc {
		t.Errorf("unexpected fields: %+v", event)
	}
	if !event.StartDate.Equal(ts(10, 9)) || !event.EndDate.Equal(end) {
		t.Errorf("unexpected dates: %v - %v", event.StartDate, event.EndDate)
	}
	if event.Color != models.DefaultEventColor || event.Status != models.EventStatusScheduled {
		t.Errorf("unexpected defaults: %s %s", event.Color, event.Status)
	}
	if event.User == nil || event.User.ID != user.ID || event.User.Email != user.Email {
		t.Errorf("expected owner summary, got %+v", event.User)
	}
}

func TestCreateEventUnknownUser(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), models.EventCreate{
		Title:     "Orphan",
		StartDate: ts(1, 9),
		Color:     models.DefaultEventColor,
		Status:    models.EventStatusScheduled,
		UserID:    "b7a5a6b0-0000-0000-0000-000000000000",
	})
	if apperr.KindOf(err) != apperr.KindReference {
		t.Fatalf("expected reference error, got %v", err)
	}

	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no event rows, got %d", count)
	}
}

func TestGetAllFiltersAndOrdering(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	ctx := context.Background()

	seed := []struct {
		title  string
		start  time.Time
		status string
		userID string
	}{
		{"late", ts(20, 9), models.EventStatusScheduled, owner.ID},
		{"early", ts(5, 9), models.EventStatusScheduled, owner.ID},
		{"boundary-low", ts(10, 0), models.EventStatusConfirmed, owner.ID},
		{"someone-else", ts(12, 9), models.EventStatusScheduled, other.ID},
		{"outside", time.Date(2025, time.February, 2, 9, 0, 0, 0, time.UTC), models.EventStatusScheduled, owner.ID},
	}
	for _, s := range seed {
		if _, err := svc.Create(ctx, models.EventCreate{
			Title:     s.title,
			StartDate: s.start,
			Color:     models.DefaultEventColor,
			Status:    s.status,
			UserID:    s.userID,
		}); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	t.Run("no filters returns everything ascending", func(t *testing.T) {
		events, err := svc.GetAll(ctx, "", Filters{})
		if err != nil {
			t.Fatalf("GetAll() error: %v", err)
		}
		if len(events) != 5 {
			t.Fatalf("expected 5 events, got %d", len(events))
		}
		for i := 1; i < len(events); i++ {
			if events[i].StartDate.Before(events[i-1].StartDate) {
				t.Errorf("events not ordered ascending at %d", i)
			}
		}
		if events[0].User == nil {
			t.Error("expected owner summaries on listing")
		}
	})

	t.Run("window is inclusive on both ends", func(t *testing.T) {
		start, end := ts(10, 0), ts(20, 9)
		events, err := svc.GetAll(ctx, "", Filters{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("GetAll() error: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("expected 3 events in window, got %d", len(events))
		}
		if events[0].Title != "boundary-low" || events[2].Title != "late" {
			t.Errorf("unexpected window contents: %s .. %s", events[0].Title, events[2].Title)
		}
	})

	t.Run("user scope", func(t *testing.T) {
		events, err := svc.GetAll(ctx, other.ID, Filters{})
		if err != nil {
			t.Fatalf("GetAll() error: %v", err)
		}
		if len(events) != 1 || events[0].Title != "someone-else" {
			t.Errorf("unexpected scoped result: %+v", events)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		events, err := svc.GetAll(ctx, "", Filters{Status: models.EventStatusConfirmed})
		if err != nil {
			t.Fatalf("GetAll() error: %v", err)
		}
		if len(events) != 1 || events[0].Title != "boundary-low" {
			t.Errorf("unexpected status result: %+v", events)
		}
	})
}

func TestGetByIDNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)

	_, err := svc.GetByID(context.Background(), "missing-id")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateEvent(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	user := createTestUser(t, db, "owner@example.com")
	ctx := context.Background()

	end := ts(10, 12)
	created, err := svc.Create(ctx, models.EventCreate{
		Title:     "Original",
		StartDate: ts(10, 9),
		EndDate:   &end,
		Color:     models.DefaultEventColor,
		Status:    models.EventStatusScheduled,
		UserID:    user.ID,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	t.Run("only provided fields change", func(t *testing.T) {
		title := "Renamed"
		updated, err := svc.Update(ctx, created.ID, models.EventUpdate{Title: &title})
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("title not updated: %s", updated.Title)
		}
		if !updated.StartDate.Equal(created.StartDate) || !updated.EndDate.Equal(*created.EndDate) {
			t.Errorf("untouched fields changed: %+v", updated)
		}
		if updated.User == nil || updated.User.ID != user.ID {
			t.Error("expected owner summary on update result")
		}
	})

	t.Run("explicit null clears endDate", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, models.EventUpdate{EndDateSet: true, EndDate: nil})
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if updated.EndDate != nil {
			t.Errorf("expected endDate cleared, got %v", updated.EndDate)
		}
	})

	t.Run("merged temporal invariant", func(t *testing.T) {
		// Put an end date back, then try to move the start past it.
		newEnd := ts(10, 10)
		if _, err := svc.Update(ctx, created.ID, models.EventUpdate{EndDateSet: true, EndDate: &newEnd}); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		lateStart := ts(10, 11)
		_, err := svc.Update(ctx, created.ID, models.EventUpdate{StartDate: &lateStart})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		// The record is unchanged.
		current, err := svc.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID() error: %v", err)
		}
		if !current.StartDate.Equal(ts(10, 9)) {
			t.Errorf("startDate mutated after rejected update: %v", current.StartDate)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		title := "x"
		_, err := svc.Update(ctx, "missing-id", models.EventUpdate{Title: &title})
		if apperr.KindOf(err) != apperr.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestDeleteEvent(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	user := createTestUser(t, db, "owner@example.com")
	ctx := context.Background()

	keep, _ := svc.Create(ctx, models.EventCreate{
		Title: "Keep", StartDate: ts(1, 9),
		Color: models.DefaultEventColor, Status: models.EventStatusScheduled, UserID: user.ID,
	})
	doomed, _ := svc.Create(ctx, models.EventCreate{
		Title: "Doomed", StartDate: ts(2, 9),
		Color: models.DefaultEventColor, Status: models.EventStatusScheduled, UserID: user.ID,
	})

	if err := svc.Delete(ctx, doomed.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.GetByID(ctx, doomed.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected deleted event to be gone, got %v", err)
	}
	if _, err := svc.GetByID(ctx, keep.ID); err != nil {
		t.Errorf("unrelated event affected: %v", err)
	}

	if err := svc.Delete(ctx, doomed.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 remaining event, got %d", count)
	}
}

func TestGetByDateRange(t *testing.T) {
	db := testDB(t)
	svc := NewService(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	ctx := context.Background()

	for day, uid := range map[int]string{5: owner.ID, 15: owner.ID, 25: other.ID} {
		if _, err := svc.Create(ctx, models.EventCreate{
			Title: "ev", StartDate: ts(day, 9),
			Color: models.DefaultEventColor, Status: models.EventStatusScheduled, UserID: uid,
		}); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	events, err := svc.GetByDateRange(ctx, owner.ID, ts(5, 9), ts(31, 23))
	if err != nil {
		t.Fatalf("GetByDateRange() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for owner, got %d", len(events))
	}
	if !events[0].StartDate.Equal(ts(5, 9)) || !events[1].StartDate.Equal(ts(15, 9)) {
		t.Errorf("unexpected range contents: %v", events)
	}
}
