package auth

import (
	"context"
	"net/http"
	"time"

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

// POST /api/auth/signup
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input SignupInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.svc.Signup(ctx, input)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, session)
}

// POST /api/auth/signin
func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := h.svc.Signin(ctx, input.Email, input.Password)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, session)
}

// GET /api/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.Me(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]any{"user": user})
}
