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

	"rakshak-women-safety/pkg/cache"
	"rakshak-women-safety/pkg/config"
	"rakshak-women-safety/pkg/database"
	"rakshak-women-safety/pkg/middleware"
	"rakshak-women-safety/pkg/queue"
	"rakshak-women-safety/pkg/security"
	"rakshak-women-safety/pkg/storage"
	"rakshak-women-safety/services/api-service/division"
	"rakshak-women-safety/services/api-service/guardian"
	"rakshak-women-safety/services/api-service/handler"
	"rakshak-women-safety/services/api-service/identity"
	"rakshak-women-safety/services/api-service/lifecycle"
	"rakshak-women-safety/services/api-service/notify"
	"rakshak-women-safety/services/api-service/sos"
	"rakshak-women-safety/services/api-service/stats"
	"rakshak-women-safety/services/api-service/store"

	"github.com/go-chi/chi/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] Failed to load config: %v", err)
	}

	db, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to MongoDB: %v", err)
	}
	defer database.DisconnectMongo(db)

	mongoStore := store.NewMongo(db)
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoStore.EnsureIndexes(setupCtx); err != nil {
		log.Fatalf("[ERROR] Failed to create indexes: %v", err)
	}
	tx := store.NewMongoTx(setupCtx, db)
	if !tx.Atomic() {
		log.Println("[WARN] MongoDB has no replica set, division membership writes fall back to compensation")
	}

	conn, ch, err := queue.ConnectRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	if _, err := queue.DeclareQueue(ch, cfg.NotificationQueue); err != nil {
		log.Fatalf("[ERROR] Failed to declare queue %s: %v", cfg.NotificationQueue, err)
	}
	log.Println("[OK] Connected to RabbitMQ")
	dispatcher := notify.NewQueueDispatcher(queue.NewPublisher(ch, cfg.NotificationQueue))

	var cooldown sos.Cooldown
	rdb, err := cache.ConnectRedis(cfg.RedisURL)
	switch {
	case err != nil:
		log.Printf("[WARN] Redis unavailable, SOS cooldown disabled: %v", err)
	case rdb == nil:
		log.Println("[INFO] REDIS_URL not set, SOS cooldown disabled")
	default:
		defer rdb.Close()
		cooldown = cache.NewCooldown(rdb, sos.CooldownPrefix, cfg.SOSCooldown)
		log.Println("[OK] Connected to Redis")
	}

	objects, err := storage.NewMinioStorage(setupCtx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Printf("[WARN] MinIO unavailable, attachment uploads disabled: %v", err)
		objects = nil
	} else {
		log.Println("[OK] Connected to MinIO")
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	divisions := division.NewService(mongoStore, mongoStore, tx)
	accounts := identity.NewService(identity.Deps{
		Users:           mongoStore,
		Divisions:       mongoStore,
		States:          mongoStore,
		Tokens:          tokens,
		Membership:      divisions,
		PrivilegedEmail: cfg.AdminEmail,
	})

	created, err := accounts.BootstrapAdmin(setupCtx, identity.AdminSeed{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Phone:    cfg.AdminPhone,
	})
	if err != nil {
		log.Fatalf("[ERROR] Admin bootstrap failed: %v", err)
	}
	if created {
		log.Printf("[OK] Admin account %s created", cfg.AdminEmail)
	}
	cancelSetup()

	api := handler.New(handler.Deps{
		Identity:  accounts,
		Guardians: guardian.NewService(mongoStore, mongoStore),
		Complaints: lifecycle.NewEngine(lifecycle.Deps{
			Complaints: mongoStore,
			Users:      mongoStore,
			Divisions:  mongoStore,
			Dispatcher: dispatcher,
			Objects:    objects,
		}),
		Divisions: divisions,
		SOS:       sos.NewService(mongoStore, mongoStore, dispatcher, cooldown),
		Stats:     stats.NewService(mongoStore, mongoStore, mongoStore),
		Tokens:    tokens,
	})

	middleware.RegisterMetrics()
	log.Println("[INFO] Prometheus metrics initialized")

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware, middleware.MetricsMiddleware, middleware.LoggerMiddleware, cors(cfg.ClientURL))
	r.Get("/health", healthHandler)
	r.Handle("/metrics", middleware.GetMetricsHandler())
	r.Mount("/", api.Routes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] API Service running on port :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ERROR] Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Shutting down API Service")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Graceful shutdown failed: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "api-service"})
}

// cors admits the web client origin and answers preflight requests.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Trace-Id")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
