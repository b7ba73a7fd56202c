package encounters

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
	encounterFhirClientInstance contracts.EncounterFhirClient
	onceEncounterFhirClient     sync.Once
)

type encounterFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
	Limiter *rate.Limiter
}

func NewEncounterFhirClient(baseUrl string, logger *zap.Logger, limiter *rate.Limiter) contracts.EncounterFhirClient {
	onceEncounterFhirClient.Do(func() {
		client := &encounterFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceEncounter,
			Log:     logger,
			Limiter: limiter,
		}
		encounterFhirClientInstance = client
	})
	return encounterFhirClientInstance
}

func (c *encounterFhirClient) FindEncountersByIDs(ctx context.Context, encounterIDs []string) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("encounterFhirClient.FindEncountersByIDs called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingIDCountKey, len(encounterIDs)),
	)

	if len(encounterIDs) == 0 {
		return nil, nil
	}

	searchUrl := fmt.Sprintf("%s?_id=%s", c.BaseUrl, url.QueryEscape(strings.Join(encounterIDs, ",")))

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrRateLimiterWait(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, searchUrl, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("encounterFhirClient.FindEncountersByIDs error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrSearchFHIRResource)
	}

	var bundle fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
	}

	encounters := make([]fhir_dto.Encounter, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var encounter fhir_dto.Encounter
		if err := json.Unmarshal(entry.Resource, &encounter); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
		}
		encounters = append(encounters, encounter)
	}

	c.Log.Debug("encounterFhirClient.FindEncountersByIDs succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, len(encounters)),
	)
	return encounters, nil
}

func (c *encounterFhirClient) CreateEncounter(ctx context.Context, request *fhir_dto.Encounter) (*fhir_dto.Encounter, error) {
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
		c.Log.Error("encounterFhirClient.CreateEncounter error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrCreateFHIRResource)
	}

	encounterFhir := new(fhir_dto.Encounter)
	err = json.NewDecoder(resp.Body).Decode(encounterFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
	}

	c.Log.Debug("encounterFhirClient.CreateEncounter succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, encounterFhir.ID),
	)
	return encounterFhir, nil
}

func outcomeError(log *zap.Logger, requestID string, resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceEncounter)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		log.Error("FHIR server returned an operation outcome",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, constvars.ResourceEncounter),
			zap.Error(fhirErrorIssue),
		)
		return build(fhirErrorIssue, constvars.ResourceEncounter)
	}

	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceEncounter)
}
