package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eventspark/models"
	"eventspark/utils"

	"github.com/julienschmidt/httprouter"
)

const requestTimeout = 10 * time.Second

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// GET /api/auth/users
func (h *Handlers) GroupedUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	grouped, err := h.svc.Grouped(ctx)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, grouped)
}

// ListUsers serves GET /api/auth/users/all, /organizers and /admins.
func (h *Handlers) ListUsers(role models.Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		users, err := h.svc.List(ctx, role)
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
		utils.RespondWithData(w, http.StatusOK, users)
	}
}

// PATCH /api/auth/users/role
func (h *Handlers) UpdateRole(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.UpdateRole(ctx, req.Email, req.Role)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("User role updated to %s and notified by email.", user.Role),
		"data":    user,
	})
}

// POST /api/auth/users
func (h *Handlers) InviteUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.Invite(ctx, req.Name, req.Email, req.Role)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, user)
}
