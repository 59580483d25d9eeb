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

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/embedded-iot/unified-be/configs"
	"github.com/embedded-iot/unified-be/internal/constants"
	"github.com/embedded-iot/unified-be/internal/daemon"
	"github.com/embedded-iot/unified-be/internal/db"
	"github.com/embedded-iot/unified-be/internal/handlers"
	"github.com/embedded-iot/unified-be/internal/metrics"
	"github.com/embedded-iot/unified-be/internal/middleware"
	"github.com/embedded-iot/unified-be/internal/repository"
	"github.com/embedded-iot/unified-be/internal/services"
	"github.com/embedded-iot/unified-be/internal/utils"
)

const serviceName = "iot-monitoring-backend"

func main() {
	cfg := configs.LoadConfig()

	logger, err := utils.InitLogger(cfg.Env, cfg.LogLevel, serviceName)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	database := client.Database(cfg.DBName)
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	utils.InitJwtSecret(cfg.JWTSecret, cfg.JWTExpiration)

	masterRepo := repository.NewMasterRepository(db.GetCollection(cfg.DBName, constants.MastersCollection), cfg.StoreTimeout)
	gatewayRepo := repository.NewGatewayRepository(db.GetCollection(cfg.DBName, constants.GatewaysCollection), cfg.StoreTimeout)
	deviceRepo := repository.NewDeviceRepository(db.GetCollection(cfg.DBName, constants.DevicesCollection), cfg.StoreTimeout)
	activityLogRepo := repository.NewActivityLogRepository(db.GetCollection(cfg.DBName, constants.ActivityLogsCollection), cfg.StoreTimeout)
	faultRepo := repository.NewFaultRepository(db.GetCollection(cfg.DBName, constants.FaultsCollection), cfg.StoreTimeout)

	activityLogService := services.NewActivityLogService(activityLogRepo, masterRepo)
	faultService := services.NewFaultService(faultRepo, gatewayRepo, deviceRepo)

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog)

	health := &handlers.HealthHandler{DB: client}
	r.HandleFunc("/healthz", health.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.JSONMiddleware)

	authHandler, err := handlers.NewAuthHandler(cfg.UserId, cfg.UserName, cfg.UserPassword)
	if err != nil {
		logger.Fatal("Failed to prepare login credentials", zap.Error(err))
	}
	authHandler.Register(api)

	auth := handlers.Middleware(middleware.JWTAuthMiddleware)
	handlers.NewMasterHandler(services.NewMasterService(masterRepo)).Register(api, auth)
	handlers.NewGatewayHandler(services.NewGatewayService(gatewayRepo, masterRepo)).Register(api, auth)
	handlers.NewDeviceHandler(services.NewDeviceService(deviceRepo, gatewayRepo)).Register(api, auth)
	handlers.NewActivityLogHandler(activityLogService).Register(api, auth)
	handlers.NewFaultHandler(faultService).Register(api, auth)

	var mqttClient pahomqtt.Client
	if cfg.MQTT.Enabled {
		ingester := &daemon.EventIngester{
			ActivityLogs: activityLogService,
			Faults:       faultService,
			TopicPrefix:  cfg.MQTT.TopicPrefix,
			QoS:          cfg.MQTT.QoS,
			Timeout:      cfg.StoreTimeout,
		}
		mqttClient, err = daemon.ConnectMQTT(cfg.MQTT, ingester.Subscribe)
		if err != nil {
			// the HTTP API stays useful without the broker
			logger.Error("MQTT ingest disabled", zap.Error(err))
		}
	}

	var server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	daemon.DisconnectMQTT(mqttClient)
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	if err := db.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
	}
	logger.Info("Server shut down.")
}
