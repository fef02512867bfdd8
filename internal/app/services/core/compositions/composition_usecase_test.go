package compositions

import (
	"context"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/fhir_dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCompositionFhirClient struct {
	mock.Mock
}

func (m *MockCompositionFhirClient) FindCompositionByPatientID(ctx context.Context, patientID string) (*fhir_dto.CompositionDocument, error) {
	args := m.Called(ctx, patientID)
	document, _ := args.Get(0).(*fhir_dto.CompositionDocument)
	return document, args.Error(1)
}

func (m *MockCompositionFhirClient) FindCompositionHistory(ctx context.Context, compositionID, versionID string) (*fhir_dto.CompositionDocument, error) {
	args := m.Called(ctx, compositionID, versionID)
	document, _ := args.Get(0).(*fhir_dto.CompositionDocument)
	return document, args.Error(1)
}

func (m *MockCompositionFhirClient) FindCompositions(ctx context.Context) ([]*fhir_dto.CompositionDocument, error) {
	args := m.Called(ctx)
	documents, _ := args.Get(0).([]*fhir_dto.CompositionDocument)
	return documents, args.Error(1)
}

func (m *MockCompositionFhirClient) UpdateComposition(ctx context.Context, compositionID string, resource map[string]interface{}) (*fhir_dto.CompositionDocument, error) {
	args := m.Called(ctx, compositionID, resource)
	document, _ := args.Get(0).(*fhir_dto.CompositionDocument)
	return document, args.Error(1)
}

func (m *MockCompositionFhirClient) FetchComposition(ctx context.Context, patientID, historyVersion string) (*fhir_dto.CompositionDocument, error) {
	args := m.Called(ctx, patientID, historyVersion)
	document, _ := args.Get(0).(*fhir_dto.CompositionDocument)
	return document, args.Error(1)
}

func document(t *testing.T, raw string) *fhir_dto.CompositionDocument {
	t.Helper()
	node, err := accessor.Parse([]byte(raw))
	require.NoError(t, err)
	return fhir_dto.NewCompositionDocument(node)
}

const patientComposition = `{
	"resourceType": "Composition",
	"id": "ips-1",
	"section": [
		{"title": "Problems Summary", "code": {"coding": [{"code": "11450-4"}]}, "entry": [{"reference": "Condition/c-1"}]},
		{"title": "Medication Summary"}
	]
}`

func sectionEntries(resource map[string]interface{}, index int) []string {
	section := accessor.Wrap(resource).Get("section", index)
	var references []string
	for _, entry := range section.Get("entry").Items() {
		references = append(references, entry.Get("reference").String(""))
	}
	return references
}

func TestCompositionUsecase_AttachEntry(t *testing.T) {
	t.Run("creates the entry list when absent", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())
		original := document(t, patientComposition)

		client.On("FindCompositionByPatientID", mock.Anything, "p1").Return(original, nil)
		client.On("UpdateComposition", mock.Anything, "ips-1", mock.MatchedBy(func(resource map[string]interface{}) bool {
			return assert.ObjectsAreEqual([]string{"MedicationRequest/mr-9"}, sectionEntries(resource, 1)) &&
				assert.ObjectsAreEqual([]string{"Condition/c-1"}, sectionEntries(resource, 0))
		})).Return(original, nil)

		response, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{
			Section:   "medications",
			Reference: "MedicationRequest/mr-9",
		})
		require.NoError(t, err)
		assert.True(t, response.Attached)
		assert.Equal(t, constvars.SectionTitleMedications, response.Section)
		client.AssertExpectations(t)

		assert.Nil(t, original.Resource.Get("section", 1, "entry").Raw(), "fetched document must not be mutated")
	})

	t.Run("matches by section code", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		client.On("FindCompositionByPatientID", mock.Anything, "p1").Return(document(t, patientComposition), nil)
		client.On("UpdateComposition", mock.Anything, "ips-1", mock.MatchedBy(func(resource map[string]interface{}) bool {
			return assert.ObjectsAreEqual([]string{"Condition/c-1", "Condition/c-2"}, sectionEntries(resource, 0))
		})).Return(document(t, patientComposition), nil)

		_, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{
			Section:   constvars.LoincSectionProblems,
			Reference: "https://fhir.example.org/fhir/Condition/c-2",
		})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("duplicate reference is not written", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		client.On("FindCompositionByPatientID", mock.Anything, "p1").Return(document(t, patientComposition), nil)

		response, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{
			Section:   constvars.SectionTitleProblems,
			Reference: "Condition/c-1/_history/4",
		})
		require.NoError(t, err)
		assert.False(t, response.Attached)
		client.AssertNotCalled(t, "UpdateComposition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("section missing from composition", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		client.On("FindCompositionByPatientID", mock.Anything, "p1").Return(document(t, patientComposition), nil)

		_, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{
			Section:   "vital_signs",
			Reference: "Observation/o-1",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusUnprocessableEntity, exceptions.StatusCodeOf(err))
	})

	t.Run("unknown section selector", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		client.On("FindCompositionByPatientID", mock.Anything, "p1").Return(document(t, patientComposition), nil)

		_, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{Section: "Immunizations", Reference: "Immunization/i-1"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusUnprocessableEntity, exceptions.StatusCodeOf(err))
	})

	t.Run("no composition for patient", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		client.On("FindCompositionByPatientID", mock.Anything, "nobody").Return(nil, exceptions.ErrNoDataFHIRResource(nil, constvars.ResourceComposition))

		_, err := uc.AttachEntry(context.Background(), "nobody", &requests.AttachEntry{Section: "problems", Reference: "Condition/c-3"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
	})

	t.Run("malformed reference", func(t *testing.T) {
		client := new(MockCompositionFhirClient)
		uc := NewCompositionUsecase(client, zap.NewNop())

		_, err := uc.AttachEntry(context.Background(), "p1", &requests.AttachEntry{Section: "problems", Reference: "not-a-reference"})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, exceptions.StatusCodeOf(err))
		client.AssertNotCalled(t, "FindCompositionByPatientID", mock.Anything, mock.Anything)
	})
}

func TestCompositionUsecase_DetachReference(t *testing.T) {
	client := new(MockCompositionFhirClient)
	uc := NewCompositionUsecase(client, zap.NewNop())

	withReference := document(t, `{"resourceType": "Composition", "id": "a", "section": [
		{"title": "Results Summary", "entry": [{"reference": "Observation/o-1"}, {"reference": "Observation/o-2"}]},
		{"title": "Vital Signs Summary", "entry": [{"reference": "Observation/o-1"}]}
	]}`)
	withoutReference := document(t, `{"resourceType": "Composition", "id": "b", "section": [
		{"title": "Results Summary", "entry": [{"reference": "Observation/o-3"}]}
	]}`)

	client.On("FindCompositions", mock.Anything).Return([]*fhir_dto.CompositionDocument{withReference, withoutReference}, nil)
	client.On("UpdateComposition", mock.Anything, "a", mock.MatchedBy(func(resource map[string]interface{}) bool {
		return assert.ObjectsAreEqual([]string{"Observation/o-2"}, sectionEntries(resource, 0)) &&
			len(sectionEntries(resource, 1)) == 0
	})).Return(withReference, nil).Once()

	response, err := uc.DetachReference(context.Background(), "Observation/o-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, response.UpdatedCompositions)
	assert.Equal(t, 2, response.ScannedCompositions)
	client.AssertExpectations(t)
}

func TestCompositionUsecase_DetachReference_InvalidReference(t *testing.T) {
	client := new(MockCompositionFhirClient)
	uc := NewCompositionUsecase(client, zap.NewNop())

	_, err := uc.DetachReference(context.Background(), "")
	require.Error(t, err)
	client.AssertNotCalled(t, "FindCompositions", mock.Anything)
}
