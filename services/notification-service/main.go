package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rakshak-women-safety/pkg/config"
	"rakshak-women-safety/pkg/database"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/queue"
	"rakshak-women-safety/services/notification-service/deliverylog"
	"rakshak-women-safety/services/notification-service/mailer"
	"rakshak-women-safety/services/notification-service/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] Failed to load config: %v", err)
	}

	var deliveries worker.DeliveryLog
	db, err := database.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Printf("[WARN] Delivery log disabled: %v", err)
	} else {
		repo := deliverylog.NewRepository(db)
		if err := repo.Migrate(); err != nil {
			log.Fatalf("[ERROR] Migration failed: %v", err)
		}
		log.Println("[OK] Delivery log migrated")
		deliveries = repo
	}

	conn, ch, err := queue.ConnectRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	log.Println("[OK] Connected to RabbitMQ")

	msgs, err := queue.ConsumeMessages(ch, cfg.NotificationQueue)
	if err != nil {
		log.Fatalf("[ERROR] Failed to consume %s: %v", cfg.NotificationQueue, err)
	}
	log.Printf("[INFO] Listening to %s queue", cfg.NotificationQueue)

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	w := worker.New(mailer.NewRenderer(cfg.ClientURL), sender, deliveries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go w.Run(ctx, msgs)

	middleware.RegisterMetrics()
	log.Println("[INFO] Prometheus metrics initialized")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", middleware.GetMetricsHandler())

	port := os.Getenv("NOTIFICATION_PORT")
	if port == "" {
		port = "8084"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.TraceMiddleware(middleware.MetricsMiddleware(middleware.LoggerMiddleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] Notification Service running on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ERROR] Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[INFO] Shutting down Notification Service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Graceful shutdown failed: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "notification-service"})
}
