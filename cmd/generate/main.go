package main

import (
	"context"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/drivers/logger"
	"kpim-service/internal/app/services/core/synthesizer"
	"kpim-service/internal/app/services/fhir/encounters"
	"kpim-service/internal/app/services/fhir/organizations"
	"kpim-service/internal/app/services/fhir/patients"
	"kpim-service/internal/app/services/fhir/practitioners"
	"kpim-service/internal/app/services/fhir/procedures"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/requests"
	"kpim-service/internal/pkg/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// One-shot generator: builds the hospital hierarchy and writes the
// configured number of synthetic cases against the record store, without
// standing up the HTTP server.
func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	fhirLimiter := rate.NewLimiter(
		rate.Limit(internalConfig.FHIR.RequestsPerSecond),
		internalConfig.FHIR.RequestBurst,
	)

	patientFhirClient := patients.NewPatientFhirClient(internalConfig.FHIR.BaseUrl, zapLogger, fhirLimiter)
	encounterFhirClient := encounters.NewEncounterFhirClient(internalConfig.FHIR.BaseUrl, zapLogger, fhirLimiter)
	procedureFhirClient := procedures.NewProcedureFhirClient(internalConfig.FHIR.BaseUrl, zapLogger, fhirLimiter)
	organizationFhirClient := organizations.NewOrganizationFhirClient(internalConfig.FHIR.BaseUrl, zapLogger, fhirLimiter)
	practitionerFhirClient := practitioners.NewPractitionerFhirClient(internalConfig.FHIR.BaseUrl, zapLogger, fhirLimiter)

	synthesizerUsecase := synthesizer.NewSynthesizerUsecase(
		organizationFhirClient,
		practitionerFhirClient,
		patientFhirClient,
		encounterFhirClient,
		procedureFhirClient,
		internalConfig,
		zapLogger,
	)

	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())

	hierarchy, err := synthesizerUsecase.BuildHierarchy(ctx)
	if err != nil {
		log.Fatalf("Error building hierarchy: %v", err)
	}
	logrus.Printf("Hierarchy ready: %d hospitals, %d departments, %d doctors",
		hierarchy.Hospitals, hierarchy.Departments, hierarchy.Doctors)

	summary, err := synthesizerUsecase.GenerateCases(ctx, &requests.GenerateCases{
		TotalCases: internalConfig.Synthesizer.TotalCases,
		DaysBack:   internalConfig.Synthesizer.DaysBack,
	})
	if err != nil {
		log.Fatalf("Error generating cases: %v", err)
	}

	logrus.Printf("Generated %d/%d cases (%d adverse, %d failed)",
		summary.Persisted, summary.Requested, summary.Adverse, summary.Failed)
}
