package synthesizer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"kpim-service/internal/app/config"
	"kpim-service/internal/app/contracts"
	"kpim-service/internal/app/models"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/dto/requests"
	"kpim-service/internal/pkg/dto/responses"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/fhir_dto"
	"kpim-service/internal/pkg/utils"

	"go.uber.org/zap"
)

var (
	synthesizerUsecaseInstance contracts.SynthesizerUsecase
	onceSynthesizerUsecase     sync.Once
)

type synthesizerUsecase struct {
	OrganizationFhirClient contracts.OrganizationFhirClient
	PractitionerFhirClient contracts.PractitionerFhirClient
	PatientFhirClient      contracts.PatientFhirClient
	EncounterFhirClient    contracts.EncounterFhirClient
	ProcedureFhirClient    contracts.ProcedureFhirClient
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger

	hierarchyMu sync.RWMutex
	hierarchy   models.Hierarchy
}

func NewSynthesizerUsecase(
	organizationFhirClient contracts.OrganizationFhirClient,
	practitionerFhirClient contracts.PractitionerFhirClient,
	patientFhirClient contracts.PatientFhirClient,
	encounterFhirClient contracts.EncounterFhirClient,
	procedureFhirClient contracts.ProcedureFhirClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SynthesizerUsecase {
	onceSynthesizerUsecase.Do(func() {
		usecase := &synthesizerUsecase{
			OrganizationFhirClient: organizationFhirClient,
			PractitionerFhirClient: practitionerFhirClient,
			PatientFhirClient:      patientFhirClient,
			EncounterFhirClient:    encounterFhirClient,
			ProcedureFhirClient:    procedureFhirClient,
			InternalConfig:         internalConfig,
			Log:                    logger,
		}
		synthesizerUsecaseInstance = usecase
	})
	return synthesizerUsecaseInstance
}

// BuildHierarchy persists one hospital organization per template, a copy of
// every department under each hospital, and that department's own
// practitioners. The resulting tree is held read-only for case generation.
func (u *synthesizerUsecase) BuildHierarchy(ctx context.Context) (*responses.HierarchySummary, error) {
	requestID := utils.GetRequestID(ctx)
	u.Log.Info("synthesizerUsecase.BuildHierarchy called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	hierarchy := models.Hierarchy{Hospitals: make([]models.HospitalNode, 0, len(hospitalTemplates))}
	summary := &responses.HierarchySummary{}

	for _, hospitalTemplate := range hospitalTemplates {
		hospitalOrg := &fhir_dto.Organization{
			ResourceType: constvars.ResourceOrganization,
			ID:           utils.GenerateResourceID(),
			Active:       true,
			Name:         hospitalTemplate.Name,
		}
		if _, err := u.OrganizationFhirClient.CreateOrganization(ctx, hospitalOrg); err != nil {
			return nil, err
		}
		summary.Hospitals++

		hospitalNode := models.HospitalNode{
			Code:       hospitalTemplate.Code,
			Name:       hospitalTemplate.Name,
			RiskFactor: hospitalTemplate.RiskFactor,
		}

		for _, departmentTemplate := range departmentTemplates {
			departmentName := fmt.Sprintf("%s %s", hospitalTemplate.Name, departmentTemplate.Name)
			hospitalReference := utils.BuildReference(constvars.ResourceOrganization, hospitalOrg.ID)
			hospitalReference.Display = hospitalTemplate.Name

			departmentOrg := &fhir_dto.Organization{
				ResourceType: constvars.ResourceOrganization,
				ID:           utils.GenerateResourceID(),
				Active:       true,
				Name:         departmentName,
				PartOf:       hospitalReference,
			}
			if _, err := u.OrganizationFhirClient.CreateOrganization(ctx, departmentOrg); err != nil {
				return nil, err
			}
			summary.Departments++

			departmentNode := models.DepartmentNode{
				OrgID:      departmentOrg.ID,
				Name:       departmentName,
				Procedures: departmentTemplate.Procedures,
			}

			for _, surname := range departmentTemplate.DoctorSurnames {
				doctorName := fmt.Sprintf("Dr. %s (%s)", surname, hospitalTemplate.Code)
				practitioner := &fhir_dto.Practitioner{
					ResourceType: constvars.ResourcePractitioner,
					ID:           utils.GenerateResourceID(),
					Active:       true,
					Name:         []fhir_dto.HumanName{{Text: doctorName}},
				}
				if _, err := u.PractitionerFhirClient.CreatePractitioner(ctx, practitioner); err != nil {
					return nil, err
				}
				summary.Doctors++

				departmentNode.Doctors = append(departmentNode.Doctors, models.DoctorNode{
					PractitionerID: practitioner.ID,
					Name:           doctorName,
				})
			}

			hospitalNode.Departments = append(hospitalNode.Departments, departmentNode)
		}

		hierarchy.Hospitals = append(hierarchy.Hospitals, hospitalNode)
	}

	u.hierarchyMu.Lock()
	u.hierarchy = hierarchy
	u.hierarchyMu.Unlock()

	u.Log.Info("synthesizerUsecase.BuildHierarchy succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("hospital_count", summary.Hospitals),
		zap.Int("department_count", summary.Departments),
		zap.Int("doctor_count", summary.Doctors),
	)
	return summary, nil
}

// GenerateCases draws every case up front on one goroutine, then persists
// the triples in fixed-width concurrent chunks. A failed case only bumps
// the failure counter; the run continues.
func (u *synthesizerUsecase) GenerateCases(ctx context.Context, request *requests.GenerateCases) (*responses.GenerationSummary, error) {
	requestID := utils.GetRequestID(ctx)

	u.hierarchyMu.RLock()
	hierarchy := u.hierarchy
	u.hierarchyMu.RUnlock()
	if hierarchy.Empty() {
		return nil, exceptions.ErrHierarchyNotBuilt()
	}

	synthesizerConfig := u.InternalConfig.Synthesizer
	if request.DaysBack > 0 {
		synthesizerConfig.DaysBack = request.DaysBack
	}

	u.Log.Info("synthesizerUsecase.GenerateCases called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, request.TotalCases),
		zap.Int("days_back", synthesizerConfig.DaysBack),
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	specs := make([]caseSpec, request.TotalCases)
	for i := range specs {
		specs[i] = buildCaseSpec(rng, hierarchy, synthesizerConfig, now)
	}

	caseErrors := make([]error, len(specs))
	chunkSize := synthesizerConfig.WriteChunkSize
	if chunkSize <= 0 {
		chunkSize = 20
	}
	for start := 0; start < len(specs); start += chunkSize {
		end := start + chunkSize
		if end > len(specs) {
			end = len(specs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				caseErrors[index] = u.persistCase(ctx, specs[index])
			}(i)
		}
		wg.Wait()
	}

	summary := &responses.GenerationSummary{Requested: request.TotalCases}
	for i, spec := range specs {
		if caseErrors[i] != nil {
			summary.Failed++
			continue
		}
		summary.Persisted++
		if spec.IsAdverse {
			summary.Adverse++
		}
	}

	u.Log.Info("synthesizerUsecase.GenerateCases succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, summary.Persisted),
		zap.Int("failed_count", summary.Failed),
		zap.Int("adverse_count", summary.Adverse),
	)
	return summary, nil
}

// persistCase writes the triple in dependency order so references always
// point at an existing resource.
func (u *synthesizerUsecase) persistCase(ctx context.Context, spec caseSpec) error {
	if _, err := u.PatientFhirClient.CreatePatient(ctx, &spec.Patient); err != nil {
		return exceptions.ErrPersistCase(err)
	}
	if _, err := u.EncounterFhirClient.CreateEncounter(ctx, &spec.Encounter); err != nil {
		return exceptions.ErrPersistCase(err)
	}
	if _, err := u.ProcedureFhirClient.CreateProcedure(ctx, &spec.Procedure); err != nil {
		return exceptions.ErrPersistCase(err)
	}
	return nil
}
