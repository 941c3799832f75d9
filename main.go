package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventspark/admin"
	"eventspark/auth"
	"eventspark/booking"
	"eventspark/config"
	"eventspark/db"
	"eventspark/events"
	"eventspark/filemgr"
	"eventspark/middleware"
	"eventspark/mq"
	"eventspark/pay"
	"eventspark/ratelim"
	"eventspark/rdx"
	"eventspark/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func main() {
	cfg := config.Load()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ ensure indexes: %v", err)
	}

	rdb, err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// stores
	userStore := db.NewUserStore(db.UserCollection)
	eventStore := db.NewEventStore(db.EventsCollection)
	bookingStore := db.NewBookingStore(db.BookingsCollection)

	// notifications
	emitter := mq.NewEmitter(rdb)
	go mq.StartNotificationWorker(ctx, rdb, mq.LogMailer{})

	// services
	authn := middleware.NewAuth(cfg.JWTSecret, cfg.JWTTTL)
	eventCache := rdx.NewEventCache(rdb, cfg.EventCacheTTL)
	eventSvc := events.NewService(eventStore, userStore, events.WithCache(eventCache))

	hub := booking.NewHub()
	gateway := pay.NewSimulatedGateway(cfg.PaymentSuccessRate, time.Now().UnixNano())
	bookingSvc := booking.NewService(eventStore, bookingStore, userStore, gateway,
		booking.WithNotifier(emitter),
		booking.WithBroadcaster(hub),
		booking.WithInvalidator(eventSvc),
		booking.WithLocker(rdx.NewLocker(rdb)),
	)

	images := filemgr.NewManager(cfg.UploadDir, "/static/uploads")

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Auth:      authn,
		Limiter:   ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Accounts:  auth.NewHandlers(auth.NewService(userStore, authn)),
		Admin:     admin.NewHandlers(admin.NewService(userStore, emitter)),
		Events:    events.NewHandlers(eventSvc, images),
		Bookings:  booking.NewHandlers(bookingSvc),
		Hub:       hub,
		UploadDir: cfg.UploadDir,
	})

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing live seat watchers...")
		hub.Close()
		stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s (%s)", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("❌ Redis close: %v", err)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		log.Printf("❌ MongoDB disconnect: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
