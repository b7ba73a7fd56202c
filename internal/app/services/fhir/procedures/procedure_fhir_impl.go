package procedures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"kpim-service/internal/app/contracts"
	"kpim-service/internal/pkg/constvars"
	"kpim-service/internal/pkg/exceptions"
	"kpim-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	procedureFhirClientInstance contracts.ProcedureFhirClient
	onceProcedureFhirClient     sync.Once
)

type procedureFhirClient struct {
	BaseUrl string
	Log     *zap.Logger
	Limiter *rate.Limiter
}

func NewProcedureFhirClient(baseUrl string, logger *zap.Logger, limiter *rate.Limiter) contracts.ProcedureFhirClient {
	onceProcedureFhirClient.Do(func() {
		client := &procedureFhirClient{
			BaseUrl: baseUrl + "/" + constvars.ResourceProcedure,
			Log:     logger,
			Limiter: limiter,
		}
		procedureFhirClientInstance = client
	})
	return procedureFhirClientInstance
}

// FindProceduresSince pages through Procedure search results from the given
// date, following bundle "next" links until maxResults is reached or the
// server runs out of pages.
func (c *procedureFhirClient) FindProceduresSince(ctx context.Context, since time.Time, maxResults int) ([]fhir_dto.Procedure, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("procedureFhirClient.FindProceduresSince called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	searchUrl := fmt.Sprintf("%s?date=ge%s&_count=%d", c.BaseUrl, since.Format("2006-01-02"), maxResults)

	procedures := make([]fhir_dto.Procedure, 0, maxResults)
	for searchUrl != "" && len(procedures) < maxResults {
		bundle, err := c.fetchBundle(ctx, requestID, searchUrl)
		if err != nil {
			return nil, err
		}

		for _, entry := range bundle.Entry {
			var procedure fhir_dto.Procedure
			if err := json.Unmarshal(entry.Resource, &procedure); err != nil {
				return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceProcedure)
			}
			procedures = append(procedures, procedure)
			if len(procedures) == maxResults {
				break
			}
		}

		searchUrl = nextLink(bundle)
	}

	c.Log.Info("procedureFhirClient.FindProceduresSince succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCaseCountKey, len(procedures)),
	)
	return procedures, nil
}

func (c *procedureFhirClient) fetchBundle(ctx context.Context, requestID, searchUrl string) (*searchBundle, error) {
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
		c.Log.Error("procedureFhirClient.fetchBundle error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFhirUrlKey, searchUrl),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrSearchFHIRResource)
	}

	var bundle searchBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceProcedure)
	}
	return &bundle, nil
}

type searchBundle struct {
	fhir_dto.FHIRBundle
	Link []struct {
		Relation string `json:"relation"`
		Url      string `json:"url"`
	} `json:"link"`
}

func nextLink(bundle *searchBundle) string {
	for _, link := range bundle.Link {
		if link.Relation == "next" {
			return link.Url
		}
	}
	return ""
}

func (c *procedureFhirClient) CreateProcedure(ctx context.Context, request *fhir_dto.Procedure) (*fhir_dto.Procedure, error) {
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
		c.Log.Error("procedureFhirClient.CreateProcedure error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, outcomeError(c.Log, requestID, resp, exceptions.ErrCreateFHIRResource)
	}

	procedureFhir := new(fhir_dto.Procedure)
	err = json.NewDecoder(resp.Body).Decode(procedureFhir)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceProcedure)
	}

	c.Log.Debug("procedureFhirClient.CreateProcedure succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, procedureFhir.ID),
	)
	return procedureFhir, nil
}

func outcomeError(log *zap.Logger, requestID string, resp *http.Response, build func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return build(err, constvars.ResourceProcedure)
	}

	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErrorIssue := fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		log.Error("FHIR server returned an operation outcome",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceTypeKey, constvars.ResourceProcedure),
			zap.Error(fhirErrorIssue),
		)
		return build(fhirErrorIssue, constvars.ResourceProcedure)
	}

	return build(fmt.Errorf("unexpected status %d", resp.StatusCode), constvars.ResourceProcedure)
}
