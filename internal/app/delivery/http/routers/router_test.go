package routers

import (
	"bytes"
	"context"
	"ips-timeline-service/internal/app/config"
	"ips-timeline-service/internal/app/delivery/http/controllers"
	"ips-timeline-service/internal/app/delivery/http/middlewares"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/dto/responses"
	"ips-timeline-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTimelineUsecase struct {
	mock.Mock
}

func (m *MockTimelineUsecase) GetTimeline(ctx context.Context, sessionID, patientID, historyVersion string) (*models.Timeline, error) {
	args := m.Called(ctx, sessionID, patientID, historyVersion)
	timeline, _ := args.Get(0).(*models.Timeline)
	return timeline, args.Error(1)
}

func (m *MockTimelineUsecase) GetFilteredTimeline(ctx context.Context, sessionID string, query *requests.TimelineQuery) (*models.Timeline, error) {
	args := m.Called(ctx, sessionID, query)
	timeline, _ := args.Get(0).(*models.Timeline)
	return timeline, args.Error(1)
}

func (m *MockTimelineUsecase) ResetSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type MockLaboratoryUsecase struct {
	mock.Mock
}

func (m *MockLaboratoryUsecase) GetSeries(ctx context.Context, sessionID string, query *requests.LaboratoryQuery) (*models.LabSeries, error) {
	args := m.Called(ctx, sessionID, query)
	series, _ := args.Get(0).(*models.LabSeries)
	return series, args.Error(1)
}

type MockCompositionUsecase struct {
	mock.Mock
}

func (m *MockCompositionUsecase) AttachEntry(ctx context.Context, patientID string, request *requests.AttachEntry) (*responses.AttachEntry, error) {
	args := m.Called(ctx, patientID, request)
	result, _ := args.Get(0).(*responses.AttachEntry)
	return result, args.Error(1)
}

func (m *MockCompositionUsecase) DetachReference(ctx context.Context, reference string) (*responses.DetachReference, error) {
	args := m.Called(ctx, reference)
	result, _ := args.Get(0).(*responses.DetachReference)
	return result, args.Error(1)
}

type testRouter struct {
	router      *chi.Mux
	timeline    *MockTimelineUsecase
	laboratory  *MockLaboratoryUsecase
	composition *MockCompositionUsecase
}

func newTestRouter() *testRouter {
	logger := zap.NewNop()
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "/api",
			Version:                    "v1",
			AllowedOrigins:             []string{"*"},
			RequestBodyLimitInMegabyte: 1,
		},
	}

	tr := &testRouter{
		router:      chi.NewRouter(),
		timeline:    new(MockTimelineUsecase),
		laboratory:  new(MockLaboratoryUsecase),
		composition: new(MockCompositionUsecase),
	}
	SetupRoutes(tr.router, internalConfig, middlewares.NewMiddlewares(logger, internalConfig), &Controllers{
		Timeline:       controllers.NewTimelineController(logger, tr.timeline),
		Laboratory:     controllers.NewLaboratoryController(logger, tr.laboratory),
		ReferenceRange: controllers.NewReferenceRangeController(logger, reference_ranges.NewReferenceRangeUsecase(logger)),
		Composition:    controllers.NewCompositionController(logger, tr.composition),
	})
	return tr
}

func (tr *testRouter) do(method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rr := httptest.NewRecorder()
	tr.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestTimelineRoutes(t *testing.T) {
	t.Run("returns timeline for session", func(t *testing.T) {
		tr := newTestRouter()
		timeline := &models.Timeline{
			PatientID: "p1",
			Entries:   []models.TimelineEntry{{Title: constvars.TimelineTitleProblems, Name: "Asthma", Date: "2020-01-01"}},
		}
		tr.timeline.On("GetFilteredTimeline", mock.Anything, "session-1", mock.MatchedBy(func(query *requests.TimelineQuery) bool {
			return query.PatientID == "p1" &&
				query.From == "2020-01-01" &&
				assert.ObjectsAreEqual([]string{constvars.TimelineTitleProblems, constvars.TimelineTitleVitalSigns}, query.Titles)
		})).Return(timeline, nil)

		rr := tr.do(http.MethodGet, "/api/v1/patients/p1/timeline?from=2020-01-01&title=Problems,Vital%20Signs", nil,
			map[string]string{constvars.HeaderXSessionID: "session-1"})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "session-1", rr.Header().Get(constvars.HeaderXSessionID))
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
		assert.Contains(t, rr.Body.String(), `"Title":"Problems","Name":"Asthma","Date":"2020-01-01"`)
		tr.timeline.AssertExpectations(t)
	})

	t.Run("issues a session id", func(t *testing.T) {
		tr := newTestRouter()
		tr.timeline.On("GetFilteredTimeline", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(&models.Timeline{PatientID: "p1"}, nil)

		rr := tr.do(http.MethodGet, "/api/v1/patients/p1/timeline", nil, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXSessionID))
	})

	t.Run("patient without composition", func(t *testing.T) {
		tr := newTestRouter()
		tr.timeline.On("GetFilteredTimeline", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, exceptions.ErrCompositionNotFound(nil, "ghost"))

		rr := tr.do(http.MethodGet, "/api/v1/patients/ghost/timeline", nil, nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, constvars.ErrClientNoDataForPatient, body["message"])
	})

	t.Run("invalid sort", func(t *testing.T) {
		tr := newTestRouter()

		rr := tr.do(http.MethodGet, "/api/v1/patients/p1/timeline?sort=random", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		tr.timeline.AssertNotCalled(t, "GetFilteredTimeline", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reset session", func(t *testing.T) {
		tr := newTestRouter()
		tr.timeline.On("ResetSession", mock.Anything, "session-1").Return(nil)

		rr := tr.do(http.MethodDelete, "/api/v1/session", nil, map[string]string{constvars.HeaderXSessionID: "session-1"})

		assert.Equal(t, http.StatusOK, rr.Code)
		tr.timeline.AssertExpectations(t)
	})
}

func TestLaboratoryRoutes(t *testing.T) {
	t.Run("unknown analyte is rejected", func(t *testing.T) {
		tr := newTestRouter()

		rr := tr.do(http.MethodGet, "/api/v1/patients/p1/laboratory/ldl", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		tr.laboratory.AssertNotCalled(t, "GetSeries", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns series", func(t *testing.T) {
		tr := newTestRouter()
		tr.laboratory.On("GetSeries", mock.Anything, mock.Anything, &requests.LaboratoryQuery{PatientID: "p1", Analyte: "glucose"}).
			Return(&models.LabSeries{PatientID: "p1", Analyte: "glucose", Points: []models.LabPoint{}}, nil)

		rr := tr.do(http.MethodGet, "/api/v1/patients/p1/laboratory/glucose", nil, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		tr.laboratory.AssertExpectations(t)
	})
}

func TestReferenceRangeRoutes(t *testing.T) {
	tr := newTestRouter()

	rr := tr.do(http.MethodGet, "/api/v1/reference-ranges/", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = tr.do(http.MethodGet, "/api/v1/reference-ranges/hba1c", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "strict-target")

	rr = tr.do(http.MethodPost, "/api/v1/reference-ranges/glucose/classify", []byte(`{"value": 135}`), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	data, ok := decodeBody(t, rr)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "above-target", data["label"])

	rr = tr.do(http.MethodPost, "/api/v1/reference-ranges/glucose/classify", []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = tr.do(http.MethodPost, "/api/v1/reference-ranges/glucose/classify", []byte(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompositionRoutes(t *testing.T) {
	t.Run("attach entry", func(t *testing.T) {
		tr := newTestRouter()
		request := &requests.AttachEntry{Section: "problems", Reference: "Condition/c-1"}
		tr.composition.On("AttachEntry", mock.Anything, "p1", request).
			Return(&responses.AttachEntry{CompositionID: "ips-1", Reference: "Condition/c-1", Attached: true}, nil)

		rr := tr.do(http.MethodPost, "/api/v1/patients/p1/composition/entries", []byte(`{"section":"problems","reference":"Condition/c-1"}`), nil)

		assert.Equal(t, http.StatusCreated, rr.Code)
		tr.composition.AssertExpectations(t)
	})

	t.Run("attach entry with malformed reference", func(t *testing.T) {
		tr := newTestRouter()

		rr := tr.do(http.MethodPost, "/api/v1/patients/p1/composition/entries", []byte(`{"section":"problems","reference":"c-1"}`), nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeBody(t, rr)["message"], "must look like ResourceType/id")
	})

	t.Run("detach reference", func(t *testing.T) {
		tr := newTestRouter()
		tr.composition.On("DetachReference", mock.Anything, "Observation/o-1").
			Return(&responses.DetachReference{Reference: "Observation/o-1", UpdatedCompositions: []string{"a"}, ScannedCompositions: 2}, nil)

		rr := tr.do(http.MethodDelete, "/api/v1/compositions/entries?reference=Observation/o-1", nil, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		tr.composition.AssertExpectations(t)
	})
}
