// Package middleware holds the pre-route request guards. Each guard binds
// the JSON body once, rejects invalid input with a 400 envelope, and stashes
// the parsed payload in the request context for the handler.
package middleware

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mjoubert/agenda-api/internal/api"
	"github.com/mjoubert/agenda-api/internal/models"
)

// Context keys under which guards store the parsed payloads.
const (
	CtxEventCreate = "event_create"
	CtxEventUpdate = "event_update"
	CtxUserCreate  = "user_create"
	CtxUserUpdate  = "user_update"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateTimeLayouts are accepted for startDate/endDate fields and query
// parameters, most specific first. Layouts without a zone are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a date-time string in one of the accepted layouts.
func ParseDateTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// EventCreateFrom returns the payload stored by ValidateEventCreate.
func EventCreateFrom(c *gin.Context) models.EventCreate {
	return c.MustGet(CtxEventCreate).(models.EventCreate)
}

// EventUpdateFrom returns the payload stored by ValidateEventUpdate.
func EventUpdateFrom(c *gin.Context) models.EventUpdate {
	return c.MustGet(CtxEventUpdate).(models.EventUpdate)
}

// UserCreateFrom returns the payload stored by ValidateUserCreate.
func UserCreateFrom(c *gin.Context) models.UserCreate {
	return c.MustGet(CtxUserCreate).(models.UserCreate)
}

// UserUpdateFrom returns the payload stored by ValidateUserUpdate.
func UserUpdateFrom(c *gin.Context) models.UserUpdate {
	return c.MustGet(CtxUserUpdate).(models.UserUpdate)
}

// bindRawBody decodes the request body into a field-presence map.
// A nil return means the response has already been written.
func bindRawBody(c *gin.Context) map[string]json.RawMessage {
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		api.Fail(c, http.StatusBadRequest, "request body is required")
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		api.Fail(c, http.StatusBadRequest, "request body must be a JSON object")
		return nil
	}
	return fields
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// ValidateEventCreate guards POST /api/events: title, startDate and userId
// are required, and endDate (when given) must be strictly after startDate.
func ValidateEventCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := bindRawBody(c)
		if fields == nil {
			return
		}

		in := models.EventCreate{
			Color:  models.DefaultEventColor,
			Status: models.EventStatusScheduled,
		}

		raw, ok := fields["title"]
		if !ok || isNull(raw) {
			api.Fail(c, http.StatusBadRequest, "title is required")
			return
		}
		title, ok := asString(raw)
		if !ok || strings.TrimSpace(title) == "" {
			api.Fail(c, http.StatusBadRequest, "title is required")
			return
		}
		in.Title = title

		raw, ok = fields["startDate"]
		if !ok || isNull(raw) {
			api.Fail(c, http.StatusBadRequest, "startDate is required")
			return
		}
		s, ok := asString(raw)
		if !ok {
			api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
			return
		}
		start, err := ParseDateTime(s)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
			return
		}
		in.StartDate = start

		raw, ok = fields["userId"]
		if !ok || isNull(raw) {
			api.Fail(c, http.StatusBadRequest, "userId is required")
			return
		}
		userID, ok := asString(raw)
		if !ok || userID == "" {
			api.Fail(c, http.StatusBadRequest, "userId is required")
			return
		}
		in.UserID = userID

		if raw, ok := fields["endDate"]; ok && !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
				return
			}
			end, err := ParseDateTime(s)
			if err != nil {
				api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
				return
			}
			if !end.After(in.StartDate) {
				api.Fail(c, http.StatusBadRequest, "endDate must be after startDate")
				return
			}
			in.EndDate = &end
		}

		if raw, ok := fields["description"]; ok && !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "description must be a string")
				return
			}
			in.Description = &s
		}
		if raw, ok := fields["location"]; ok && !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "location must be a string")
				return
			}
			in.Location = &s
		}
		if raw, ok := fields["isAllDay"]; ok && !isNull(raw) {
			b, ok := asBool(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "isAllDay must be a boolean")
				return
			}
			in.IsAllDay = b
		}
		if raw, ok := fields["color"]; ok && !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "color must be a string")
				return
			}
			in.Color = s
		}
		if raw, ok := fields["status"]; ok && !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				api.Fail(c, http.StatusBadRequest, "status must be a string")
				return
			}
			in.Status = s
		}

		c.Set(CtxEventCreate, in)
		c.Next()
	}
}

// ValidateEventUpdate guards PUT /api/events/:id. Only fields present in the
// body are validated and carried through; an explicit null clears a nullable
// field. The owning user of an event cannot be changed. The definitive
// endDate-after-startDate check against the stored record happens in the
// service, which knows the merged values.
func ValidateEventUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := bindRawBody(c)
		if fields == nil {
			return
		}

		var in models.EventUpdate

		if raw, ok := fields["title"]; ok {
			title, strOK := asString(raw)
			if isNull(raw) || !strOK || strings.TrimSpace(title) == "" {
				api.Fail(c, http.StatusBadRequest, "title cannot be blank")
				return
			}
			in.Title = &title
		}
		if raw, ok := fields["startDate"]; ok {
			s, strOK := asString(raw)
			if isNull(raw) || !strOK {
				api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
				return
			}
			start, err := ParseDateTime(s)
			if err != nil {
				api.Fail(c, http.StatusBadRequest, "startDate is not a valid date")
				return
			}
			in.StartDate = &start
		}
		if raw, ok := fields["endDate"]; ok {
			in.EndDateSet = true
			if !isNull(raw) {
				s, strOK := asString(raw)
				if !strOK {
					api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
					return
				}
				end, err := ParseDateTime(s)
				if err != nil {
					api.Fail(c, http.StatusBadRequest, "endDate is not a valid date")
					return
				}
				in.EndDate = &end
			}
		}
		if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
			api.Fail(c, http.StatusBadRequest, "endDate must be after startDate")
			return
		}

		if raw, ok := fields["description"]; ok {
			in.DescriptionSet = true
			if !isNull(raw) {
				s, strOK := asString(raw)
				if !strOK {
					api.Fail(c, http.StatusBadRequest, "description must be a string")
					return
				}
				in.Description = &s
			}
		}
		if raw, ok := fields["location"]; ok {
			in.LocationSet = true
			if !isNull(raw) {
				s, strOK := asString(raw)
				if !strOK {
					api.Fail(c, http.StatusBadRequest, "location must be a string")
					return
				}
				in.Location = &s
			}
		}
		if raw, ok := fields["isAllDay"]; ok {
			b, boolOK := asBool(raw)
			if isNull(raw) || !boolOK {
				api.Fail(c, http.StatusBadRequest, "isAllDay must be a boolean")
				return
			}
			in.IsAllDay = &b
		}
		if raw, ok := fields["color"]; ok {
			s, strOK := asString(raw)
			if isNull(raw) || !strOK {
				api.Fail(c, http.StatusBadRequest, "color must be a string")
				return
			}
			in.Color = &s
		}
		if raw, ok := fields["status"]; ok {
			s, strOK := asString(raw)
			if isNull(raw) || !strOK {
				api.Fail(c, http.StatusBadRequest, "status must be a string")
				return
			}
			in.Status = &s
		}

		c.Set(CtxEventUpdate, in)
		c.Next()
	}
}

// validateEmail reports whether s has a basic local@domain.tld shape.
func validateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidateUserCreate guards POST /api/users: email is required and must be
// well-formed; name, when given, cannot be blank.
func ValidateUserCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := bindRawBody(c)
		if fields == nil {
			return
		}

		var in models.UserCreate

		raw, ok := fields["email"]
		if !ok || isNull(raw) {
			api.Fail(c, http.StatusBadRequest, "email is required")
			return
		}
		email, ok := asString(raw)
		if !ok || strings.TrimSpace(email) == "" {
			api.Fail(c, http.StatusBadRequest, "email is required")
			return
		}
		if !validateEmail(email) {
			api.Fail(c, http.StatusBadRequest, "email is not valid")
			return
		}
		in.Email = email

		if raw, ok := fields["name"]; ok && !isNull(raw) {
			name, strOK := asString(raw)
			if !strOK || strings.TrimSpace(name) == "" {
				api.Fail(c, http.StatusBadRequest, "name cannot be blank")
				return
			}
			in.Name = &name
		}

		c.Set(CtxUserCreate, in)
		c.Next()
	}
}

// ValidateUserUpdate guards PUT /api/users/:id with the same field rules as
// creation, applied only to the fields present in the body.
func ValidateUserUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := bindRawBody(c)
		if fields == nil {
			return
		}

		var in models.UserUpdate

		if raw, ok := fields["email"]; ok {
			email, strOK := asString(raw)
			if isNull(raw) || !strOK || !validateEmail(email) {
				api.Fail(c, http.StatusBadRequest, "email is not valid")
				return
			}
			in.Email = &email
		}
		if raw, ok := fields["name"]; ok {
			in.NameSet = true
			if !isNull(raw) {
				name, strOK := asString(raw)
				if !strOK || strings.TrimSpace(name) == "" {
					api.Fail(c, http.StatusBadRequest, "name cannot be blank")
					return
				}
				in.Name = &name
			}
		}

		c.Set(CtxUserUpdate, in)
		c.Next()
	}
}
