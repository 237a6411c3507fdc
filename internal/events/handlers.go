package events

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mjoubert/agenda-api/internal/api"
	"github.com/mjoubert/agenda-api/internal/middleware"
)

// ListHandler serves GET /api/events with optional userId, startDate,
// endDate and status query filters.
func ListHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f Filters
		if v := c.Query("startDate"); v != "" {
			t, err := middleware.ParseDateTime(v)
			if err != nil {
				api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
				return
			}
			f.StartDate = &t
		}
		if v := c.Query("endDate"); v != "" {
			t, err := middleware.ParseDateTime(v)
			if err != nil {
				api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
				return
			}
			f.EndDate = &t
		}
		f.Status = c.Query("status")

		events, err := svc.GetAll(c.Request.Context(), c.Query("userId"), f)
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OKCount(c, events, len(events))
	}
}

// GetHandler serves GET /api/events/:id.
func GetHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OK(c, event)
	}
}

// CreateHandler serves POST /api/events. The body has already been
// validated and parsed by the ValidateEventCreate guard.
func CreateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.Create(c.Request.Context(), middleware.EventCreateFrom(c))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.Created(c, event, "event created")
	}
}

// UpdateHandler serves PUT /api/events/:id with partial-update semantics.
func UpdateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := svc.Update(c.Request.Context(), c.Param("id"), middleware.EventUpdateFrom(c))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OK(c, event)
	}
}

// DeleteHandler serves DELETE /api/events/:id.
func DeleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		api.Message(c, "event deleted")
	}
}

// DateRangeHandler serves GET /api/events/user/:userId/daterange, a range
// query scoped to one user. Both bounds are required.
func DateRangeHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		startRaw, endRaw := c.Query("startDate"), c.Query("endDate")
		if startRaw == "" || endRaw == "" {
			api.Fail(c, http.StatusBadRequest, "startDate and endDate are required")
			return
		}
		start, err := middleware.ParseDateTime(startRaw)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
			return
		}
		end, err := middleware.ParseDateTime(endRaw)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
			return
		}

		events, err := svc.GetByDateRange(c.Request.Context(), c.Param("userId"), start, end)
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OKCount(c, events, len(events))
	}
}
