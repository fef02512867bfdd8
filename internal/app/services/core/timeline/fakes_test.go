package timeline

import (
	"context"
	"errors"
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNotUsed = errors.New("not used in this test")

type fakeCompositionClient struct {
	document *fhir_dto.CompositionDocument
	err      error
}

func (f *fakeCompositionClient) FindCompositionByPatientID(ctx context.Context, patientID string) (*fhir_dto.CompositionDocument, error) {
	return nil, errNotUsed
}

func (f *fakeCompositionClient) FindCompositionHistory(ctx context.Context, compositionID, versionID string) (*fhir_dto.CompositionDocument, error) {
	return nil, errNotUsed
}

func (f *fakeCompositionClient) FindCompositions(ctx context.Context) ([]*fhir_dto.CompositionDocument, error) {
	return nil, errNotUsed
}

func (f *fakeCompositionClient) UpdateComposition(ctx context.Context, compositionID string, resource map[string]interface{}) (*fhir_dto.CompositionDocument, error) {
	return nil, errNotUsed
}

func (f *fakeCompositionClient) FetchComposition(ctx context.Context, patientID, historyVersion string) (*fhir_dto.CompositionDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

// fakeClinicalClient serves resources from memory keyed by reference.
type fakeClinicalClient struct {
	resources map[string]string
	requested []string
}

func (f *fakeClinicalClient) FindResourceByReference(ctx context.Context, reference string) (accessor.Node, error) {
	f.requested = append(f.requested, reference)
	raw, ok := f.resources[reference]
	if !ok {
		return accessor.Missing, exceptions.ErrNoDataFHIRResource(nil, constvars.ResourceClinicalData)
	}
	return accessor.Parse([]byte(raw))
}

type MockTimelineBuilder struct {
	mock.Mock
}

func (m *MockTimelineBuilder) BuildTimeline(ctx context.Context, patientID, historyVersion string) (*models.Timeline, error) {
	args := m.Called(ctx, patientID, historyVersion)
	timeline, _ := args.Get(0).(*models.Timeline)
	return timeline, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTimelineBuilt(ctx context.Context, event *models.TimelineBuiltEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func compositionDocument(t *testing.T, raw string) *fhir_dto.CompositionDocument {
	t.Helper()
	node, err := accessor.Parse([]byte(raw))
	require.NoError(t, err)
	return fhir_dto.NewCompositionDocument(node)
}
