package utils

import (
	"net/http"

	"eventspark/globals"
	"eventspark/models"
)

func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetRoleFromRequest(r *http.Request) models.Role {
	role, ok := r.Context().Value(globals.RoleKey).(models.Role)
	if !ok {
		return ""
	}
	return role
}

// Caller is the identity resolved from the bearer credential.
type Caller struct {
	UserID string
	Role   models.Role
}

func CallerFromRequest(r *http.Request) Caller {
	return Caller{UserID: GetUserIDFromRequest(r), Role: GetRoleFromRequest(r)}
}
