package practitioners

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
	practitionerFhirClientInstance contracts.PractitionerFhirClient
	oncePractitionerFhirClient     sync.Once
)

type practitionerFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
	Limiter *rate.Limiter
}

func NewPractitionerFhirClient(baseUrl string, logger *zap.Logger, limiter *rate.Limiter) contracts.PractitionerFhirClient {
	oncePractitionerFhirClient.Do(func() {
		client := &practitionerFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourcePractitioner,
			Log:     logger,
			Limiter: limiter,
		}
		practitionerFhirClientInstance = client
	})
	return practitionerFhirClientInstance
}

func (c *practitionerFhirClient) FindPractitionersByIDs(ctx context.Context, practitionerIDs []string) ([]fhir_dto.Practitioner, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if len(practitionerIDs) == 0 {
		return nil, nil
	}

	searchUrl := fmt.Sprintf("%s?_id=%s", c.BaseUrl, url.QueryEscape(strings.Join(practitionerIDs, ",")))

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
		c.Log.Error("practitionerFhirClient.FindPractitionersByIDs error sending HTTP request",
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
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
	}

	practitioners := make([]fhir_dto.Practitioner, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var practitioner fhir_dto.Practitioner
		if err := json.Unmarshal(entry.Resource, &practitioner); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
		}
		practitioners = append(practitioners, practitioner)
	}

	return practitioners, nil
}

func (c *practitionerFhirClient) CreatePractitioner(ctx context.Context, request *fhir_dto.Practitioner) (*fhir_dto.Practitioner, error) {
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
		c.Log.Error("practitionerFhirClient.CreatePractitioner error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrCreateFHIRResource)
	}

	practitionerFhir := new(fhir_dto.Practitioner)
	err = json.NewDecoder(resp.Body).Decode(practitionerFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePractitioner)
	}

	c.Log.Debug("practitionerFhirClient.CreatePractitioner succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, practitionerFhir.ID),
	)
	return practitionerFhir, nil
}

func outcomeError(log *zap.Logger, requestID string, resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourcePractitioner)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		log.Error("FHIR server returned an operation outcome",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, constvars.ResourcePractitioner),
			zap.Error(fhirErrorIssue),
		)
		return build(fhirErrorIssue, constvars.ResourcePractitioner)
	}

	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourcePractitioner)
}
