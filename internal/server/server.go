// Package server wires the storefront's handlers into a chi router and runs
// the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"micasa-storefront/internal/catalog"
	"micasa-storefront/internal/config"
	"micasa-storefront/internal/handlers"
	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/middleware"
	"micasa-storefront/internal/payment"
	"micasa-storefront/internal/services"
	"micasa-storefront/internal/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server is the storefront HTTP server
type Server struct {
	cfg      *config.Config
	logger   *logrus.Logger
	catalog  *catalog.Catalog
	payments services.PaymentService
	now      func() time.Time
	limiter  *middleware.SubmitLimiter
	state    *store.State
	router   chi.Router
}

// Option customizes a Server
type Option func(*Server)

// WithPaymentService replaces the simulated payment service
func WithPaymentService(ps services.PaymentService) Option {
	return func(s *Server) { s.payments = ps }
}

// WithClock sets the clock used for calendars and card expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds the server and its routes
func New(cfg *config.Config, logger *logrus.Logger, cat *catalog.Catalog, opts ...Option) (*Server, error) {
	sessionStore, err := store.NewFilesystemStore(cfg.Session.Dir, cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		payments: services.NewMockPaymentService(),
		now:      time.Now,
		limiter:  middleware.NewSubmitLimiter(cfg.Server.SubmitLimit, cfg.Server.SubmitWindow),
		state:    store.New(sessionStore, cfg.Session.Name),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	shop := s.cfg.Shop

	bookingService := services.NewBookingService(services.TicketPrices{
		GA:         shop.GAPrice,
		VIP:        shop.VIPPrice,
		ServiceFee: shop.ServiceFee,
	})
	cartService := services.NewCartService(s.catalog, shop.ShippingFee)
	validator := payment.NewValidator(payment.NewLibPhoneChecker(shop.PhoneRegion), s.now)

	publicHandler := handlers.NewPublicHandler(s.state, shop, s.catalog, s.catalog)
	bookingHandler := handlers.NewBookingHandler(s.state, shop, s.catalog, bookingService)
	bookingHandler.SetClock(s.now)
	cartHandler := handlers.NewCartHandler(s.state, shop, cartService)
	checkoutHandler := handlers.NewCheckoutHandler(s.state, shop, cartService, s.payments, validator)
	csrfMiddleware := middleware.NewCSRFMiddleware(s.state)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	// Static files
	static := s.cfg.Server.StaticDir
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(static))))
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(filepath.Join(static, "images")))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"micasa-storefront"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware.Protect)

		r.Get("/", publicHandler.HomePage)
		r.Get("/merch", publicHandler.MerchPage)

		r.Route("/booking", func(r chi.Router) {
			r.Get("/", bookingHandler.BookingPage)
			r.Post("/", bookingHandler.Submit)
			r.Get("/calendar", bookingHandler.Calendar)
			r.Post("/calendar/select", bookingHandler.SelectDay)
			r.Post("/totals", bookingHandler.Totals)
			r.Post("/confirm", bookingHandler.Confirm)
			r.Post("/cancel", bookingHandler.Cancel)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.ViewCart)
			r.Post("/add", cartHandler.AddToCart)
			r.Get("/badge", cartHandler.Badge)
			r.Post("/items/{id}/quantity", cartHandler.UpdateQuantity)
			r.Post("/items/{id}/remove", cartHandler.RemoveItem)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(middleware.Limit(s.limiter))
			r.Get("/", checkoutHandler.CheckoutPage)
			r.Post("/", checkoutHandler.ProcessPayment)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.limiter.Cleanup(ctx, time.Minute)
	go store.SweepExpired(logging.WithEntry(ctx, logrus.NewEntry(s.logger)), s.cfg.Session.Dir,
		time.Duration(s.cfg.Session.MaxAge)*time.Second, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr": srv.Addr,
			"env":  s.cfg.Server.Env,
		}).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
