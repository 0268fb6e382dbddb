package router

import (
	"database/sql"
	"net/http"
	"time"

	"bawabati-api/internal/cache"
	"bawabati-api/internal/config"
	"bawabati-api/internal/handlers"
	"bawabati-api/internal/middleware"
	"bawabati-api/internal/models"
	"bawabati-api/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, cfg config.Config, logger zerolog.Logger) *mux.Router {
	redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword, 15*time.Minute)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	providers := []services.RateProvider{
		&services.ExchangeRateAPIProvider{BaseURL: cfg.ExchangeRateAPIURL, Client: httpClient},
		&services.FrankfurterProvider{BaseURL: cfg.FrankfurterAPIURL, Client: httpClient},
	}

	currencyService := services.NewCurrencyService(services.NewCurrencyStore(db), redisCache, providers, logger)
	deliveryService := services.NewDeliveryService(services.DefaultDeliveryConfig(), logger)
	orderService := services.NewOrderService(db, logger)
	invoiceService := services.NewInvoiceService(currencyService, logger)
	userService := services.NewUserService(db, logger)
	authService := services.NewAuthService(cfg.JWTSecret, logger)

	authHandler := handlers.NewAuthHandler(db, authService, logger)
	userHandler := handlers.NewUserHandler(db, logger)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, logger)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService, logger)
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	invoiceHandler := handlers.NewInvoiceHandler(orderService, invoiceService, logger)
	dashboardHandler := handlers.NewDashboardHandler(logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Storefront reference data is public; prices must render before login.
	currencies := api.PathPrefix("/currencies").Subrouter()
	currencies.HandleFunc("", currencyHandler.GetCurrencies).Methods("GET")
	currencies.HandleFunc("/convert", currencyHandler.Convert).Methods("GET")

	delivery := api.PathPrefix("/delivery").Subrouter()
	delivery.Use(middleware.RequestValidation())
	delivery.HandleFunc("/quote", deliveryHandler.Quote).Methods("POST")

	users := api.PathPrefix("/users").Subrouter()
	users.Use(middleware.Authentication(authService, logger))
	users.HandleFunc("/me", userHandler.GetProfile).Methods("GET")

	adminUsers := users.PathPrefix("").Subrouter()
	adminUsers.Use(middleware.RoleGate(userService, logger, string(models.RoleAdmin)))
	adminUsers.HandleFunc("", userHandler.GetUsers).Methods("GET")
	adminUsers.HandleFunc("/{id}/role", userHandler.UpdateRole).Methods("PUT")

	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(middleware.Authentication(authService, logger))
	orders.Use(middleware.RequestValidation())
	orders.HandleFunc("", orderHandler.CreateOrder).Methods("POST")
	orders.HandleFunc("", orderHandler.ListOrders).Methods("GET")
	orders.HandleFunc("/{id}", orderHandler.GetOrder).Methods("GET")

	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.Use(middleware.Authentication(authService, logger))
	invoices.HandleFunc("/{id}", invoiceHandler.GetInvoice).Methods("GET")

	dashboard := r.PathPrefix("/dashboard").Subrouter()
	dashboard.Use(middleware.PageAuthentication(authService, logger))
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleVendor, models.RoleRestaurant, models.RoleDriver} {
		area := string(role)
		gated := dashboard.PathPrefix("/" + area).Subrouter()
		gated.Use(middleware.RoleGate(userService, logger, area))
		gated.HandleFunc("", dashboardHandler.Landing(area)).Methods("GET")
	}

	r.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"authentication required","login":"/api/v1/auth/login"}`))
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
