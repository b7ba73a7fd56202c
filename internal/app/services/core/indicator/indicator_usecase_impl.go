package indicator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/contracts"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/responses"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	indicatorUsecaseInstance contracts.IndicatorUsecase
	onceIndicatorUsecase     sync.Once
)

type indicatorUsecase struct {
	ProcedureFhirClient    contracts.ProcedureFhirClient
	PatientFhirClient      contracts.PatientFhirClient
	EncounterFhirClient    contracts.EncounterFhirClient
	OrganizationFhirClient contracts.OrganizationFhirClient
	PractitionerFhirClient contracts.PractitionerFhirClient
	RedisRepository        contracts.RedisRepository
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
	Classifier             *Classifier
}

func NewIndicatorUsecase(
	procedureFhirClient contracts.ProcedureFhirClient,
	patientFhirClient contracts.PatientFhirClient,
	encounterFhirClient contracts.EncounterFhirClient,
	organizationFhirClient contracts.OrganizationFhirClient,
	practitionerFhirClient contracts.PractitionerFhirClient,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.IndicatorUsecase {
	onceIndicatorUsecase.Do(func() {
		usecase := &indicatorUsecase{
			ProcedureFhirClient:    procedureFhirClient,
			PatientFhirClient:      patientFhirClient,
			EncounterFhirClient:    encounterFhirClient,
			OrganizationFhirClient: organizationFhirClient,
			PractitionerFhirClient: practitionerFhirClient,
			RedisRepository:        redisRepository,
			InternalConfig:         internalConfig,
			Log:                    logger,
			Classifier:             NewClassifier(internalConfig.Indicator),
		}
		indicatorUsecaseInstance = usecase
	})
	return indicatorUsecaseInstance
}

func (u *indicatorUsecase) ProviderTable(ctx context.Context) (*responses.IndicatorTable, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("indicatorUsecase.ProviderTable called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cached := new(responses.IndicatorTable)
	if u.readCache(ctx, constvars.RedisKeyProviderRows, cached) {
		return cached, nil
	}

	run, err := u.computeCases(ctx)
	if err != nil {
		return nil, err
	}

	rows := Aggregate(run.Cases, ByDoctor)
	DecorateStatus(rows, u.InternalConfig.Indicator.RiskThresholdPercent)

	table := &responses.IndicatorTable{Rows: rows, Stats: run.Stats}
	u.writeCache(ctx, constvars.RedisKeyProviderRows, table)

	u.Log.Info("indicatorUsecase.ProviderTable succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingRowCountKey, len(rows)),
		zap.Int(constvars.LoggingDroppedCountKey, run.Stats.Dropped()),
	)
	return table, nil
}

func (u *indicatorUsecase) MonthlyTrend(ctx context.Context) (*responses.TrendSeries, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("indicatorUsecase.MonthlyTrend called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cached := new(responses.TrendSeries)
	if u.readCache(ctx, constvars.RedisKeyTrendRows, cached) {
		return cached, nil
	}

	run, err := u.computeCases(ctx)
	if err != nil {
		return nil, err
	}

	points := Aggregate(run.Cases, ByMonth)
	DecorateStatus(points, u.InternalConfig.Indicator.RiskThresholdPercent)

	series := &responses.TrendSeries{Points: points, Stats: run.Stats}
	u.writeCache(ctx, constvars.RedisKeyTrendRows, series)
	return series, nil
}

func (u *indicatorUsecase) Breakdown(ctx context.Context) (*responses.IndicatorTable, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("indicatorUsecase.Breakdown called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cached := new(responses.IndicatorTable)
	if u.readCache(ctx, constvars.RedisKeyBreakdownRows, cached) {
		return cached, nil
	}

	run, err := u.computeCases(ctx)
	if err != nil {
		return nil, err
	}

	rows := Aggregate(run.Cases, ByBreakdown(run.HospitalOf))
	DecorateStatus(rows, u.InternalConfig.Indicator.RiskThresholdPercent)

	table := &responses.IndicatorTable{Rows: rows, Stats: run.Stats}
	u.writeCache(ctx, constvars.RedisKeyBreakdownRows, table)
	return table, nil
}

func (u *indicatorUsecase) FlaggedCases(ctx context.Context) (*responses.FlaggedCases, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("indicatorUsecase.FlaggedCases called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	cached := new(responses.FlaggedCases)
	if u.readCache(ctx, constvars.RedisKeyFlaggedCases, cached) {
		return cached, nil
	}

	run, err := u.computeCases(ctx)
	if err != nil {
		return nil, err
	}

	rows := Aggregate(run.Cases, ByDoctor)
	DecorateStatus(rows, u.InternalConfig.Indicator.RiskThresholdPercent)

	flaggedDoctors := make(map[string]struct{})
	for _, row := range Flagged(rows) {
		flaggedDoctors[row.Key.Doctor] = struct{}{}
	}

	cases := make([]models.ClassifiedCase, 0)
	for _, classified := range run.Cases {
		if !classified.IsNumerator {
			continue
		}
		if _, ok := flaggedDoctors[classified.DoctorName]; ok {
			cases = append(cases, classified)
		}
	}

	flagged := &responses.FlaggedCases{Cases: cases, Stats: run.Stats}
	u.writeCache(ctx, constvars.RedisKeyFlaggedCases, flagged)
	return flagged, nil
}

// indicatorRun is the outcome of one full link-and-classify pass.
type indicatorRun struct {
	Cases      []models.ClassifiedCase
	Stats      models.LinkStats
	HospitalOf map[string]string
}

// computeCases runs the full pipeline: fetch recent procedures, resolve
// their patient and encounter references in chunks, classify each linked
// triple, then resolve the department organizations so breakdown rows can
// carry the owning hospital.
func (u *indicatorUsecase) computeCases(ctx context.Context) (*indicatorRun, error) {
	requestID := utils.GetRequestID(ctx)
	indicatorConfig := u.InternalConfig.Indicator

	since := time.Now().AddDate(0, 0, -indicatorConfig.LookbackDays)
	procedures, err := u.ProcedureFhirClient.FindProceduresSince(ctx, since, indicatorConfig.MaxProcedures)
	if err != nil {
		return nil, err
	}

	stats := models.LinkStats{TotalProcedures: len(procedures)}

	patientIDs := make([]string, 0, len(procedures))
	encounterIDs := make([]string, 0, len(procedures))
	for _, procedure := range procedures {
		patientIDs = append(patientIDs, utils.ResolveReferenceID(procedure.Subject))
		encounterIDs = append(encounterIDs, utils.ResolveReferenceID(procedure.Encounter))
	}

	u.backfillPerformerNames(ctx, procedures, &stats)

	patients := ResolveReferences(ctx, u.Log, patientIDs, indicatorConfig.FetchChunkSize,
		u.PatientFhirClient.FindPatientsByIDs,
		func(patient fhir_dto.Patient) string { return patient.ID },
		&stats,
	)
	encounters := ResolveReferences(ctx, u.Log, encounterIDs, indicatorConfig.FetchChunkSize,
		u.EncounterFhirClient.FindEncountersByIDs,
		func(encounter fhir_dto.Encounter) string { return encounter.ID },
		&stats,
	)

	cases := make([]models.ClassifiedCase, 0, len(procedures))
	for _, procedure := range procedures {
		var patient *fhir_dto.Patient
		if found, ok := patients[utils.ResolveReferenceID(procedure.Subject)]; ok {
			patient = &found
		}
		var encounter *fhir_dto.Encounter
		if found, ok := encounters[utils.ResolveReferenceID(procedure.Encounter)]; ok {
			encounter = &found
		}

		classified, outcome := u.Classifier.Classify(procedure, patient, encounter)
		stats.CountOutcome(outcome)
		if outcome == models.CaseClassified {
			cases = append(cases, classified)
		}
	}

	hospitalOf := u.resolveHospitals(ctx, cases, &stats)

	u.Log.Debug("indicatorUsecase.computeCases finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, len(cases)),
		zap.Int(constvars.LoggingDroppedCountKey, stats.Dropped()),
	)
	return &indicatorRun{Cases: cases, Stats: stats, HospitalOf: hospitalOf}, nil
}

// backfillPerformerNames fills in missing performer display names by
// resolving the referenced practitioners, so provider aggregation keys on a
// name instead of a raw reference whenever the store can supply one.
func (u *indicatorUsecase) backfillPerformerNames(ctx context.Context, procedures []fhir_dto.Procedure, stats *models.LinkStats) {
	practitionerIDs := make([]string, 0)
	for _, procedure := range procedures {
		if len(procedure.Performer) == 0 {
			continue
		}
		if procedure.Performer[0].Actor.Display == "" {
			practitionerIDs = append(practitionerIDs, utils.ResolveReferenceID(procedure.Performer[0].Actor))
		}
	}
	if len(practitionerIDs) == 0 {
		return
	}

	practitioners := ResolveReferences(ctx, u.Log, practitionerIDs, u.InternalConfig.Indicator.FetchChunkSize,
		u.PractitionerFhirClient.FindPractitionersByIDs,
		func(practitioner fhir_dto.Practitioner) string { return practitioner.ID },
		stats,
	)

	for i := range procedures {
		if len(procedures[i].Performer) == 0 || procedures[i].Performer[0].Actor.Display != "" {
			continue
		}
		id := utils.ResolveReferenceID(procedures[i].Performer[0].Actor)
		if practitioner, ok := practitioners[id]; ok {
			procedures[i].Performer[0].Actor.Display = practitioner.DisplayName()
		}
	}
}

// resolveHospitals maps each department organization id to the display name
// of its parent organization. Departments whose parent cannot be resolved
// fall back to an explicit unknown bucket rather than dropping the row.
func (u *indicatorUsecase) resolveHospitals(ctx context.Context, cases []models.ClassifiedCase, stats *models.LinkStats) map[string]string {
	departmentIDs := make([]string, 0, len(cases))
	for _, classified := range cases {
		departmentIDs = append(departmentIDs, classified.DepartmentID)
	}

	organizations := ResolveReferences(ctx, u.Log, departmentIDs, u.InternalConfig.Indicator.FetchChunkSize,
		u.OrganizationFhirClient.FindOrganizationsByIDs,
		func(organization fhir_dto.Organization) string { return organization.ID },
		stats,
	)

	hospitalOf := make(map[string]string, len(organizations))
	for id, organization := range organizations {
		if organization.PartOf.Display != "" {
			hospitalOf[id] = organization.PartOf.Display
			continue
		}
		hospitalOf[id] = constvars.ResponseUnknown
	}
	return hospitalOf
}

// readCache deserializes the cached payload into target when present.
// A cache miss or a stale decode falls through to recomputation.
func (u *indicatorUsecase) readCache(ctx context.Context, key string, target interface{}) bool {
	value, err := u.RedisRepository.Get(ctx, key)
	if err != nil || value == "" {
		return false
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		u.Log.Warn("indicatorUsecase.readCache error unmarshalling cached payload",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return false
	}
	return true
}

// writeCache is best effort: a failed set only logs, the response already
// holds freshly computed data.
func (u *indicatorUsecase) writeCache(ctx context.Context, key string, value interface{}) {
	ttl := time.Duration(u.InternalConfig.App.CacheTTLSeconds) * time.Second
	if err := u.RedisRepository.Set(ctx, key, value, ttl); err != nil {
		u.Log.Warn("indicatorUsecase.writeCache error caching payload",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
	}
}
