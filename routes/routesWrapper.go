package routes

import (
	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddAdminRoutes(router, d)
	AddAuthRoutes(router, d)
	AddBookingRoutes(router, d)
	AddEventsRoutes(router, d)
	AddStaticRoutes(router, d)
	AddTicketRoutes(router, d)
	AddUtilityRoutes(router, d)
}
