package booking

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eventspark/models"
	"eventspark/tickets"
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

type createRequest struct {
	EventID    string `json:"eventId"`
	SeatNumber string `json:"seatNumber"`
}

type bulkCreateRequest struct {
	EventID     string   `json:"eventId"`
	SeatNumbers []string `json:"seatNumbers"`
}

type paymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// GET /api/bookings/event/:eventId/seats
func (h *Handlers) GetSeats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.ListSeats(ctx, ps.ByName("eventId"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, res)
}

// POST /api/bookings/create
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if req.EventID == "" {
		utils.RespondWithAppError(w, models.Validation("Event id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.Create(ctx, req.EventID, req.SeatNumber, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, map[string]any{
		"booking":     res.Bookings[0],
		"event":       res.Event,
		"ticketPrice": res.TicketPrice,
	})
}

// POST /api/bookings/bulk-create
func (h *Handlers) BulkCreateBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bulkCreateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if req.EventID == "" {
		utils.RespondWithAppError(w, models.Validation("Event id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.BulkCreate(ctx, req.EventID, req.SeatNumbers, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, res)
}

// POST /api/bookings/booking/:id/payment
func (h *Handlers) ProcessPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req paymentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.SettlePayment(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r), req.PaymentMethod)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, res)
}

// GET /api/bookings/my-bookings
func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	views, err := h.svc.ListForUser(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, views)
}

// GET /api/bookings/booking/:id
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := h.svc.Get(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, view)
}

// GET /api/bookings/booking/:id/ticket
func (h *Handlers) DownloadTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	info, err := h.svc.Ticket(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	pdf, err := tickets.RenderPDF(info)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, info.BookingID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// GET /api/tickets/verify?code=
func (h *Handlers) VerifyTicket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.RespondWithAppError(w, models.Validation("code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.Verify(ctx, code)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, res)
}
