package events

import (
	"context"
	"io"
	"net/http"
	"time"

	"eventspark/filemgr"
	"eventspark/models"
	"eventspark/utils"

	"github.com/julienschmidt/httprouter"
)

const requestTimeout = 10 * time.Second

// ImageSaver stores an uploaded image and returns where it is served.
type ImageSaver interface {
	SaveEventImage(r io.Reader, filename string) (filemgr.SavedImage, error)
}

type Handlers struct {
	svc    *Service
	images ImageSaver
}

func NewHandlers(svc *Service, images ImageSaver) *Handlers {
	return &Handlers{svc: svc, images: images}
}

// GET /api/events
func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	events, err := h.svc.List(ctx, utils.CallerFromRequest(r), Filter{
		Category: q.Get("category"),
		Date:     q.Get("date"),
		Search:   q.Get("search"),
	})
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]any{"events": events})
}

// GET /api/events/event/:eventid
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	event, err := h.svc.Get(ctx, ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]any{"event": event})
}

// GET /api/events/raw
func (h *Handlers) GetRawEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	events, err := h.svc.ListAll(ctx)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}

// GET /api/events/organizer/:organizerId
func (h *Handlers) GetOrganizerEvents(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	events, err := h.svc.ListByOrganizer(ctx, ps.ByName("organizerId"))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "events": events})
}

// POST /api/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in EventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	event, err := h.svc.Create(ctx, utils.CallerFromRequest(r), in)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, map[string]any{"event": event})
}

// PUT /api/events/event/:eventid
func (h *Handlers) EditEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in EventInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	event, err := h.svc.Update(ctx, utils.CallerFromRequest(r), ps.ByName("eventid"), in)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]any{"event": event})
}

// DELETE /api/events/event/:eventid
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, utils.CallerFromRequest(r), ps.ByName("eventid")); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Event deleted"})
}

// POST /api/events/event/:eventid/sell-tickets
func (h *Handlers) SellTickets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body := struct {
		Quantity *int `json:"quantity"`
	}{}
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &body); err != nil {
			utils.RespondWithAppError(w, err)
			return
		}
	}
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.SellTickets(ctx, ps.ByName("eventid"), quantity)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, res)
}

// POST /api/events/event/:eventid/image
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.CheckEditable(ctx, utils.CallerFromRequest(r), eventID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, filemgr.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(filemgr.MaxImageSize); err != nil {
		utils.RespondWithAppError(w, models.Validation("Unable to parse form"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithAppError(w, models.Validation("image file is required"))
		return
	}
	defer file.Close()

	saved, err := h.images.SaveEventImage(file, header.Filename)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if err := h.svc.SetImage(ctx, eventID, saved.URL); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]any{"imageUrl": saved.URL, "thumbUrl": saved.ThumbURL})
}
