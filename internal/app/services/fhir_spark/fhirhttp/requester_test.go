package fhirhttp

import (
	"context"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequester_URL(t *testing.T) {
	requester := NewRequester(Config{BaseURL: "http://fhir.test/fhir/"}, zap.NewNop())

	assert.Equal(t, "http://fhir.test/fhir/Composition/c1/_history/2", requester.URL(nil, "Composition", "c1", "_history", "2"))
	assert.Equal(t, "http://fhir.test/fhir/Composition?patient=p+1", requester.URL(url.Values{"patient": {"p 1"}}, "Composition"))
}

func TestRequester_GetSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constvars.MIMEApplicationFHIRJSON, r.Header.Get(constvars.HeaderAccept))
		assert.Equal(t, "Bearer secret", r.Header.Get(constvars.HeaderAuthorization))
		assert.Equal(t, "req-1", r.Header.Get(constvars.HeaderXRequestID))
		w.Write([]byte(`{"resourceType":"Observation","id":"o1"}`))
	}))
	defer server.Close()

	requester := NewRequester(Config{BaseURL: server.URL, AuthToken: "secret", Timeout: time.Second}, zap.NewNop())
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

	var node accessor.Node
	require.NoError(t, requester.Get(ctx, requester.URL(nil, "Observation", "o1"), constvars.ResourceObservation, &node))
	assert.Equal(t, "o1", node.Get("id").String(""))
}

func TestRequester_ErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Observation/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","diagnostics":"gone"}]}`))
		case "/Observation/broken":
			w.Write([]byte(`{not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	requester := NewRequester(Config{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
	ctx := context.Background()
	var node accessor.Node

	err := requester.Get(ctx, requester.URL(nil, "Observation", "missing"), constvars.ResourceObservation, &node)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	assert.Contains(t, err.Error(), "gone")

	err = requester.Get(ctx, requester.URL(nil, "Observation", "broken"), constvars.ResourceObservation, &node)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusBadGateway, exceptions.StatusCodeOf(err))

	err = requester.Put(ctx, requester.URL(nil, "Composition", "c1"), constvars.ResourceComposition, map[string]string{"id": "c1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update")
}

func TestRequester_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	requester := NewRequester(Config{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
	var node accessor.Node
	err := requester.Get(context.Background(), requester.URL(nil, "Observation", "o1"), constvars.ResourceObservation, &node)

	require.Error(t, err)
	assert.Equal(t, constvars.StatusBadGateway, exceptions.StatusCodeOf(err))
}

func TestRequester_RateLimiterHonoursContext(t *testing.T) {
	requester := NewRequester(Config{BaseURL: "http://fhir.test", MaxRequestsPerSecond: 0.001}, zap.NewNop())
	requester.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	var node accessor.Node
	err := requester.Get(ctx, requester.URL(nil, "Observation", "o1"), constvars.ResourceObservation, &node)

	require.Error(t, err)
	assert.Equal(t, constvars.StatusServiceUnavailable, exceptions.StatusCodeOf(err))
}
