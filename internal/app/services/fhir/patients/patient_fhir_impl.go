package patients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	patientFhirClientInstance contracts.PatientFhirClient
	oncePatientFhirClient     sync.Once
)

type patientFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
	Limiter *rate.Limiter
}

func NewPatientFhirClient(baseUrl string, logger *zap.Logger, limiter *rate.Limiter) contracts.PatientFhirClient {
	oncePatientFhirClient.Do(func() {
		client := &patientFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourcePatient,
			Log:     logger,
			Limiter: limiter,
		}
		patientFhirClientInstance = client
	})
	return patientFhirClientInstance
}

func (c *patientFhirClient) FindPatientsByIDs(ctx context.Context, patientIDs []string) ([]fhir_dto.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("patientFhirClient.FindPatientsByIDs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingIDCountKey, len(patientIDs)),
	)

	if len(patientIDs) == 0 {
		return nil, nil
	}

	searchUrl := fmt.Sprintf("%s?_id=%s", c.BaseUrl, url.QueryEscape(strings.Join(patientIDs, ",")))

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrRateLimiterWait(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, searchUrl, nil)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientsByIDs error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientsByIDs error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, fhirSearchError(c.Log, requestID, resp, constvars.ResourcePatient)
	}

	var bundle fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientsByIDs error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	patients := make([]fhir_dto.Patient, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var patient fhir_dto.Patient
		if err := json.Unmarshal(entry.Resource, &patient); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
		}
		patients = append(patients, patient)
	}

	c.Log.Debug("patientFhirClient.FindPatientsByIDs succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, len(patients)),
	)
	return patients, nil
}

func (c *patientFhirClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrRateLimiterWait(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, c.BaseUrl+"/"+request.ID, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, fhirWriteError(c.Log, requestID, resp, constvars.ResourcePatient)
	}

	patientFhir := new(fhir_dto.Patient)
	err = json.NewDecoder(resp.Body).Decode(patientFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Debug("patientFhirClient.CreatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, patientFhir.ID),
	)
	return patientFhir, nil
}

func fhirSearchError(log *zap.Logger, requestID string, resp *http.Response, resourceType string) error {
	return decodeOutcomeError(log, requestID, resp, resourceType, exceptions.ErrSearchFHIRResource)
}

func fhirWriteError(log *zap.Logger, requestID string, resp *http.Response, resourceType string) error {
	return decodeOutcomeError(log, requestID, resp, resourceType, exceptions.ErrCreateFHIRResource)
}

func decodeOutcomeError(log *zap.Logger, requestID string, resp *http.Response, resourceType string, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, resourceType)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		log.Error("FHIR server returned an operation outcome",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, resourceType),
			zap.Error(fhirErrorIssue),
		)
		return build(fhirErrorIssue, resourceType)
	}

	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), resourceType)
}
