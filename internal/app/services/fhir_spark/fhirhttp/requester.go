package fhirhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/fhir_dto"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL              string
	AuthToken            string
	Timeout              time.Duration
	MaxRequestsPerSecond float64
}

// Requester performs paced FHIR REST calls against one server.
type Requester struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewRequester(cfg Config, logger *zap.Logger) *Requester {
	limit := rate.Inf
	burst := 1
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
		if cfg.MaxRequestsPerSecond > 1 {
			burst = int(cfg.MaxRequestsPerSecond)
		}
	}

	return &Requester{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  cfg.AuthToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		Log:        logger,
	}
}

// URL joins path segments onto the base URL and appends query.
func (r *Requester) URL(query url.Values, segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	target := r.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// Get fetches target and decodes the body into out.
func (r *Requester) Get(ctx context.Context, target, resource string, out interface{}) error {
	data, err := r.do(ctx, constvars.MethodGet, target, resource, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return exceptions.ErrDecodeResponse(err, resource)
	}
	return nil
}

// Put sends body as FHIR JSON and decodes the response into out when out is
// not nil.
func (r *Requester) Put(ctx context.Context, target, resource string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	data, err := r.do(ctx, constvars.MethodPut, target, resource, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return exceptions.ErrDecodeResponse(err, resource)
	}
	return nil
}

func (r *Requester) do(ctx context.Context, method, target, resource string, payload []byte) ([]byte, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if err := r.limiter.Wait(ctx); err != nil {
		r.Log.Warn("fhirRequester.do rate limiter wait aborted",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingURLKey, target),
			zap.Error(err),
		)
		return nil, exceptions.ErrRateLimiterWait(err)
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	if payload != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	}
	if r.authToken != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+r.authToken)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.Log.Error("fhirRequester.do error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, method),
			zap.String(constvars.LoggingURLKey, target),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, exceptions.ErrServerDeadlineExceeded(err)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resource)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fhirErrorIssue := fmt.Errorf("FHIR server responded %d", resp.StatusCode)
		var outcome fhir_dto.OperationOutcome
		if json.Unmarshal(data, &outcome) == nil && outcome.Diagnostics() != "" {
			fhirErrorIssue = fmt.Errorf("FHIR server responded %d: %s", resp.StatusCode, outcome.Diagnostics())
		}
		r.Log.Error("fhirRequester.do FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, method),
			zap.String(constvars.LoggingURLKey, target),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Error(fhirErrorIssue),
		)
		switch {
		case resp.StatusCode == constvars.StatusNotFound:
			return nil, exceptions.ErrNoDataFHIRResource(fhirErrorIssue, resource)
		case method == constvars.MethodPut:
			return nil, exceptions.ErrUpdateFHIRResource(fhirErrorIssue, resource)
		default:
			return nil, exceptions.ErrGetFHIRResource(fhirErrorIssue, resource)
		}
	}

	return data, nil
}
