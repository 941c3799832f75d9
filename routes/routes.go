package routes

import (
	"fmt"
	"net/http"

	"eventspark/admin"
	"eventspark/auth"
	"eventspark/booking"
	"eventspark/events"
	"eventspark/middleware"
	"eventspark/models"
	"eventspark/ratelim"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the route table needs.
type Deps struct {
	Auth      *middleware.Auth
	Limiter   *ratelim.RateLimiter
	Accounts  *auth.Handlers
	Admin     *admin.Handlers
	Events    *events.Handlers
	Bookings  *booking.Handlers
	Hub       *booking.Hub
	UploadDir string
}

// Health is a liveness probe.
func Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "EventSpark backend is running!")
}

func AddStaticRoutes(router *httprouter.Router, d Deps) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(d.UploadDir))
}

func AddUtilityRoutes(router *httprouter.Router, _ Deps) {
	router.GET("/api/health", Health)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/signup", d.Limiter.Limit(d.Accounts.Signup))
	router.POST("/api/auth/signin", d.Limiter.Limit(d.Accounts.Signin))
	router.GET("/api/auth/me", d.Auth.Authenticate(d.Accounts.Me))
}

func AddAdminRoutes(router *httprouter.Router, d Deps) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return d.Auth.RequireRole(h, models.RoleAdmin)
	}
	router.GET("/api/auth/users", adminOnly(d.Admin.GroupedUsers))
	router.POST("/api/auth/users", adminOnly(d.Admin.InviteUser))
	router.GET("/api/auth/users/all", adminOnly(d.Admin.ListUsers("")))
	router.GET("/api/auth/users/organizers", adminOnly(d.Admin.ListUsers(models.RoleOrganizer)))
	router.GET("/api/auth/users/admins", adminOnly(d.Admin.ListUsers(models.RoleAdmin)))
	router.PATCH("/api/auth/users/role", adminOnly(d.Admin.UpdateRole))
}

func AddEventsRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/events/raw", d.Events.GetRawEvents)
	router.GET("/api/events/organizer/:organizerId", d.Events.GetOrganizerEvents)

	router.GET("/api/events", d.Auth.Authenticate(d.Events.GetEvents))
	router.POST("/api/events", d.Auth.RequireRole(d.Events.CreateEvent, models.RoleOrganizer, models.RoleAdmin))
	router.GET("/api/events/event/:eventid", d.Auth.Authenticate(d.Events.GetEvent))
	router.PUT("/api/events/event/:eventid", d.Auth.Authenticate(d.Events.EditEvent))
	router.DELETE("/api/events/event/:eventid", d.Auth.Authenticate(d.Events.DeleteEvent))
	router.POST("/api/events/event/:eventid/sell-tickets", d.Limiter.Limit(d.Auth.Authenticate(d.Events.SellTickets)))
	router.POST("/api/events/event/:eventid/image", d.Auth.Authenticate(d.Events.UploadImage))
}

func AddBookingRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/bookings/event/:eventId/seats", d.Auth.Authenticate(d.Bookings.GetSeats))
	router.GET("/api/bookings/event/:eventId/live", d.Auth.Authenticate(d.Hub.HandleWS))

	router.POST("/api/bookings/create", d.Limiter.Limit(d.Auth.Authenticate(d.Bookings.CreateBooking)))
	router.POST("/api/bookings/bulk-create", d.Limiter.Limit(d.Auth.Authenticate(d.Bookings.BulkCreateBookings)))
	router.GET("/api/bookings/my-bookings", d.Auth.Authenticate(d.Bookings.MyBookings))

	router.GET("/api/bookings/booking/:id", d.Auth.Authenticate(d.Bookings.GetBooking))
	router.POST("/api/bookings/booking/:id/payment", d.Limiter.Limit(d.Auth.Authenticate(d.Bookings.ProcessPayment)))
	router.GET("/api/bookings/booking/:id/ticket", d.Auth.Authenticate(d.Bookings.DownloadTicket))
}

func AddTicketRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/tickets/verify", d.Auth.RequireRole(d.Bookings.VerifyTicket, models.RoleOrganizer, models.RoleAdmin))
}
