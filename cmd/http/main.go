package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/delivery/http/controllers"
	"kpim-service/internal/app/delivery/http/middlewares"
	"kpim-service/internal/app/delivery/http/routers"
	"kpim-service/internal/app/drivers/database"
	"kpim-service/internal/app/drivers/logger"
	"kpim-service/internal/app/drivers/messaging"
	"kpim-service/internal/app/drivers/storage"
	"kpim-service/internal/app/services/core/indicator"
	"kpim-service/internal/app/services/core/reports"
	"kpim-service/internal/app/services/core/synthesizer"
	"kpim-service/internal/app/services/fhir/encounters"
	"kpim-service/internal/app/services/fhir/organizations"
	"kpim-service/internal/app/services/fhir/patients"
	"kpim-service/internal/app/services/fhir/practitioners"
	"kpim-service/internal/app/services/fhir/procedures"
	"kpim-service/internal/app/services/shared/alertqueue"
	"kpim-service/internal/app/services/shared/redis"
	sharedStorage "kpim-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Middlewares
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// One limiter shared by every FHIR client so the outbound budget holds
	// across resource types.
	fhirLimiter := rate.NewLimiter(
		rate.Limit(internalConfig.FHIR.RequestsPerSecond),
		internalConfig.FHIR.RequestBurst,
	)

	// FHIR clients
	patientFhirClient := patients.NewPatientFhirClient(internalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter)
	encounterFhirClient := encounters.NewEncounterFhirClient(internalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter)
	procedureFhirClient := procedures.NewProcedureFhirClient(internalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter)
	organizationFhirClient := organizations.NewOrganizationFhirClient(internalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter)
	practitionerFhirClient := practitioners.NewPractitionerFhirClient(internalConfig.FHIR.BaseUrl, bootstrap.Logger, fhirLimiter)

	// Indicator
	indicatorUsecase := indicator.NewIndicatorUsecase(
		procedureFhirClient,
		patientFhirClient,
		encounterFhirClient,
		organizationFhirClient,
		practitionerFhirClient,
		redisRepository,
		internalConfig,
		bootstrap.Logger,
	)
	indicatorController := controllers.NewIndicatorController(bootstrap.Logger, indicatorUsecase)

	// Synthesizer
	synthesizerUsecase := synthesizer.NewSynthesizerUsecase(
		organizationFhirClient,
		practitionerFhirClient,
		patientFhirClient,
		encounterFhirClient,
		procedureFhirClient,
		internalConfig,
		bootstrap.Logger,
	)
	synthesizerController := controllers.NewSynthesizerController(bootstrap.Logger, synthesizerUsecase)

	// Reports
	reportMongoRepository := reports.NewReportMongoRepository(bootstrap.MongoDB, driverConfig.MongoDB.DbName)
	alertPublisher, err := alertqueue.NewService(bootstrap.RabbitMQ, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Error initializing alert queue: %v", err)
	}
	minioStorage := sharedStorage.NewMinioStorage(minioClient)
	reportUsecase := reports.NewReportUsecase(
		indicatorUsecase,
		reportMongoRepository,
		alertPublisher,
		minioStorage,
		driverConfig.Minio.BucketName,
		bootstrap.Logger,
	)
	reportController := controllers.NewReportController(bootstrap.Logger, reportUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		appMiddlewares,
		indicatorController,
		synthesizerController,
		reportController,
	)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}
