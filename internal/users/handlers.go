package users

import (
	"github.com/gin-gonic/gin"

	"github.com/mjoubert/agenda-api/internal/api"
	"github.com/mjoubert/agenda-api/internal/middleware"
)

// ListHandler serves GET /api/users: all users, newest first, with event
// summaries.
func ListHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.GetAll(c.Request.Context())
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OKCount(c, users, len(users))
	}
}

// GetHandler serves GET /api/users/:id with the user's full events.
func GetHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OK(c, user)
	}
}

// CreateHandler serves POST /api/users. The body has already been validated
// by the ValidateUserCreate guard.
func CreateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Create(c.Request.Context(), middleware.UserCreateFrom(c))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.Created(c, user, "user created")
	}
}

// UpdateHandler serves PUT /api/users/:id with partial-update semantics.
func UpdateHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Update(c.Request.Context(), c.Param("id"), middleware.UserUpdateFrom(c))
		if err != nil {
			api.Error(c, err)
			return
		}
		api.OK(c, user)
	}
}

// DeleteHandler serves DELETE /api/users/:id.
func DeleteHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			api.Error(c, err)
			return
		}
		api.Message(c, "user deleted")
	}
}
