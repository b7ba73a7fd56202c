package organizations

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
	organizationFhirClientInstance contracts.OrganizationFhirClient
	onceOrganizationFhirClient     sync.Once
)

type organizationFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
	Limiter *rate.Limiter
}

func NewOrganizationFhirClient(baseUrl string, logger *zap.Logger, limiter *rate.Limiter) contracts.OrganizationFhirClient {
	onceOrganizationFhirClient.Do(func() {
		client := &organizationFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceOrganization,
			Log:     logger,
			Limiter: limiter,
		}
		organizationFhirClientInstance = client
	})
	return organizationFhirClientInstance
}

func (c *organizationFhirClient) FindOrganizationsByIDs(ctx context.Context, organizationIDs []string) ([]fhir_dto.Organization, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if len(organizationIDs) == 0 {
		return nil, nil
	}

	searchUrl := fmt.Sprintf("%s?_id=%s", c.BaseUrl, url.QueryEscape(strings.Join(organizationIDs, ",")))

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
		c.Log.Error("organizationFhirClient.FindOrganizationsByIDs error sending HTTP request",
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
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceOrganization)
	}

	organizations := make([]fhir_dto.Organization, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		var organization fhir_dto.Organization
		if err := json.Unmarshal(entry.Resource, &organization); err != nil {
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceOrganization)
		}
		organizations = append(organizations, organization)
	}

	return organizations, nil
}

func (c *organizationFhirClient) CreateOrganization(ctx context.Context, request *fhir_dto.Organization) (*fhir_dto.Organization, error) {
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
		c.Log.Error("organizationFhirClient.CreateOrganization error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrCreateFHIRResource)
	}

	organizationFhir := new(fhir_dto.Organization)
	err = json.NewDecoder(resp.Body).Decode(organizationFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceOrganization)
	}

	c.Log.Debug("organizationFhirClient.CreateOrganization succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, organizationFhir.ID),
	)
	return organizationFhir, nil
}

func outcomeError(log *zap.Logger, requestID string, resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceOrganization)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		log.Error("FHIR server returned an operation outcome",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, constvars.ResourceOrganization),
			zap.Error(fhirErrorIssue),
		)
		return build(fhirErrorIssue, constvars.ResourceOrganization)
	}

	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceOrganization)
}
