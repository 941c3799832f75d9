package events

import (
	"eventspark/models"
	"eventspark/utils"
)

// Visibility is the restriction every event listing runs under. Organizers
// see their own events, users see events after today and admins see all.
// An unknown role sees what a user sees.
func Visibility(caller utils.Caller, today string) models.EventQuery {
	switch caller.Role {
	case models.RoleAdmin:
		return models.EventQuery{}
	case models.RoleOrganizer:
		return models.EventQuery{CreatedBy: caller.UserID}
	default:
		return models.EventQuery{DateAfter: today}
	}
}

// canEdit reports whether caller may change or delete e.
func canEdit(caller utils.Caller, e models.Event) bool {
	return caller.Role == models.RoleAdmin || (caller.UserID != "" && e.CreatedBy == caller.UserID)
}
