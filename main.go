package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Muhammad-Huzaifa24/backend-PMS/config"
	"github.com/Muhammad-Huzaifa24/backend-PMS/handlers"
	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/middleware"
	"github.com/Muhammad-Huzaifa24/backend-PMS/realtime"
	"github.com/Muhammad-Huzaifa24/backend-PMS/repositories"
	"github.com/Muhammad-Huzaifa24/backend-PMS/services"
	"github.com/Muhammad-Huzaifa24/backend-PMS/utils"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogFile)
	logging.Logger.Info("Starting backend-PMS...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Successfully connected to MongoDB at %s", cfg.MongoURI)

	db := client.Database(cfg.MongoDB)

	userRepo := repositories.NewUserRepo(db)
	projectRepo := repositories.NewProjectRepo(db)
	taskRepo := repositories.NewTaskRepo(db)
	notificationRepo := repositories.NewNotificationRepo(db)
	transactioner := repositories.NewMongoTransactioner(client)

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(registry)

	tokenService := services.NewTokenService(userRepo, cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(userRepo, tokenService)
	notificationService := services.NewNotificationService(notificationRepo, registry)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notificationService)
	projectService := services.NewProjectService(projectRepo, taskRepo, transactioner)
	paymentService := services.NewPaymentService(cfg.StripeSecretKey)

	userHandler := handlers.NewUserHandler(userService, tokenService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, registry)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.SuccessResponse(w, "Hello from backend", nil)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	user := api.PathPrefix("/user").Subrouter()
	user.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	user.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	user.HandleFunc("/refresh-token", userHandler.RefreshToken).Methods(http.MethodPost)
	user.Handle("/logout", authMiddleware.Handler(http.HandlerFunc(userHandler.Logout))).Methods(http.MethodPost)
	user.HandleFunc("", userHandler.GetAll).Methods(http.MethodGet)
	user.HandleFunc("/{id}", userHandler.Get).Methods(http.MethodGet)

	task := api.PathPrefix("/task").Subrouter()
	task.Use(authMiddleware.Handler)
	task.HandleFunc("", taskHandler.List).Methods(http.MethodGet)
	task.HandleFunc("", taskHandler.Create).Methods(http.MethodPost)
	task.HandleFunc("/{id}", taskHandler.Get).Methods(http.MethodGet)
	task.HandleFunc("/{id}", taskHandler.Update).Methods(http.MethodPut)
	task.HandleFunc("/{id}", taskHandler.Delete).Methods(http.MethodDelete)

	project := api.PathPrefix("/project").Subrouter()
	project.Use(authMiddleware.Handler)
	project.HandleFunc("", projectHandler.List).Methods(http.MethodGet)
	project.HandleFunc("", projectHandler.Create).Methods(http.MethodPost)
	project.HandleFunc("/{id}", projectHandler.Get).Methods(http.MethodGet)
	project.HandleFunc("/{id}/tasks", projectHandler.GetTasks).Methods(http.MethodGet)
	project.HandleFunc("/{id}", projectHandler.Update).Methods(http.MethodPut)
	project.HandleFunc("/{id}", projectHandler.Delete).Methods(http.MethodDelete)

	notification := api.PathPrefix("/notification").Subrouter()
	notification.Use(authMiddleware.Handler)
	notification.HandleFunc("/{id}", notificationHandler.ListByUser).Methods(http.MethodGet)
	notification.HandleFunc("/{notificationId}", notificationHandler.MarkRead).Methods(http.MethodPost)

	stripe := api.PathPrefix("/stripe").Subrouter()
	stripe.HandleFunc("/create-payment-intent", paymentHandler.CreatePaymentIntent).Methods(http.MethodPost)

	events := api.PathPrefix("/events").Subrouter()
	events.HandleFunc("", realtimeHandler.Connect).Methods(http.MethodGet)
	events.HandleFunc("/register", realtimeHandler.Register).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: enableCORS(r),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Logger.Infof("Server is running at: http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Failed to start the application: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	logging.Logger.Info("Shutting down...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Errorf("Server shutdown error: %v", err)
	}
}
