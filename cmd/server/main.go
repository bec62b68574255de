package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/condomarket/backend/internal/asset"
	"github.com/condomarket/backend/internal/config"
	"github.com/condomarket/backend/internal/es"
	"github.com/condomarket/backend/internal/handlers"
	"github.com/condomarket/backend/internal/logging"
	loggingmw "github.com/condomarket/backend/internal/middleware/logging"
	"github.com/condomarket/backend/internal/mykafka"
	"github.com/condomarket/backend/internal/service/token"
	"github.com/condomarket/backend/internal/store"
	"github.com/condomarket/backend/internal/store/gormstore"
	"github.com/condomarket/backend/internal/store/jsonfile"
	httpserver "github.com/condomarket/backend/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	var (
		users      store.Users
		products   store.Products
		orders     store.Orders
		categories store.Categories
	)
	switch cfg.DB_BACKEND {
	case "postgres":
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatalf("db init error: %v", err)
		}
		users = &gormstore.Users{DB: db}
		products = &gormstore.Products{DB: db}
		orders = &gormstore.Orders{DB: db}
		categories = &gormstore.Categories{DB: db}
	default:
		fdb, err := jsonfile.Open(cfg.DB_FILE)
		if err != nil {
			log.Fatalf("jsonfile init error: %v", err)
		}
		users = fdb.Users()
		products = fdb.Products()
		orders = fdb.Orders()
		categories = fdb.Categories()
	}

	var assets asset.Store
	staticDir := ""
	switch cfg.STORAGE_BACKEND {
	case "s3":
		assets, err = asset.NewS3(asset.S3Config{
			Endpoint:  cfg.S3_ENDPOINT,
			AccessKey: cfg.S3_ACCESS_KEY,
			SecretKey: cfg.S3_SECRET_KEY,
			Bucket:    cfg.S3_BUCKET,
			PublicURL: cfg.S3_PUBLIC_URL,
			UseSSL:    cfg.S3_USE_SSL == "true",
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
	default:
		assets, err = asset.NewLocal(cfg.UPLOAD_DIR)
		if err != nil {
			log.Fatalf("upload dir error: %v", err)
		}
		staticDir = cfg.UPLOAD_DIR
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
	}

	var indexer *es.Indexer
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(es.Config{
			URL:      cfg.ES_URL,
			Username: cfg.ES_USER,
			Password: cfg.ES_PASSWORD,
		})
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &es.Indexer{ES: esClient, Index: "products"}
	}

	tokens := token.New([]byte(cfg.JWT_SECRET))

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Users: users, Tokens: tokens, Producer: producer},
		ProductHandler: &handlers.ProductHandler{Products: products, Assets: assets, Producer: producer, Indexer: indexer},
		OrderHandler:   &handlers.OrderHandler{Orders: orders, Producer: producer},
		CatalogHandler: &handlers.CatalogHandler{Categories: categories},
		Tokens:         tokens,
		StaticDir:      staticDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.PORT, "db_backend", cfg.DB_BACKEND, "storage_backend", cfg.STORAGE_BACKEND)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
