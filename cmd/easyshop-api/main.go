package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/easyshop/easyshop-api/internal/api/handlers"
	"github.com/easyshop/easyshop-api/internal/api/middleware"
	"github.com/easyshop/easyshop-api/internal/cache"
	"github.com/easyshop/easyshop-api/internal/config"
	"github.com/easyshop/easyshop-api/internal/health"
	"github.com/easyshop/easyshop-api/internal/metrics"
	repository "github.com/easyshop/easyshop-api/internal/repositories"
	service "github.com/easyshop/easyshop-api/internal/services"
	"github.com/easyshop/easyshop-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer redisClient.Close()

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateLimit)

	healthChecker, err := health.NewHealthHandler(cfg, redisClient)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	productService := service.NewProductService(repos.Product, catalogCache)
	productHandler := handlers.NewProductHandler(productService)
	categoryService := service.NewCategoryService(repos.Category, repos.Product, catalogCache)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	authenticated := authMiddleware.Authenticate
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.Authenticate(middleware.RequireAdmin(h))
	}
	cartWrite := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.Authenticate(middleware.RateLimit(rateLimiter, "cart")(h))
	}

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/cart", authenticated(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/cart", cartWrite(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/cart/products/{productId}", cartWrite(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/products/{productId}", cartWrite(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/products/{productId}", cartWrite(cartHandler.RemoveItem()))

	routerMux.HandleFunc("GET /api/v1/categories", categoryHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/categories/{id}", categoryHandler.GetCategory())
	routerMux.HandleFunc("GET /api/v1/categories/{id}/products", categoryHandler.ListProducts())
	routerMux.HandleFunc("POST /api/v1/categories", admin(categoryHandler.CreateCategory()))
	routerMux.HandleFunc("PUT /api/v1/categories/{id}", admin(categoryHandler.UpdateCategory()))
	routerMux.HandleFunc("DELETE /api/v1/categories/{id}", admin(categoryHandler.DeleteCategory()))

	routerMux.HandleFunc("GET /api/v1/products", productHandler.SearchProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", admin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", admin(productHandler.DeleteProduct()))

	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining; metrics sits next to the mux so r.Pattern is visible to it.
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "easyshop-api")

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

}
