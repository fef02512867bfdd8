package compositions

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/services/core/timeline"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/dto/responses"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type compositionUsecase struct {
	CompositionFhirClient contracts.CompositionFhirClient
	Log                   *zap.Logger
}

func NewCompositionUsecase(compositionFhirClient contracts.CompositionFhirClient, logger *zap.Logger) contracts.CompositionUsecase {
	return &compositionUsecase{
		CompositionFhirClient: compositionFhirClient,
		Log:                   logger,
	}
}

// AttachEntry appends reference to the matching section of the patient's
// current Composition. A reference already present is left alone.
func (uc *compositionUsecase) AttachEntry(ctx context.Context, patientID string, request *requests.AttachEntry) (*responses.AttachEntry, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("compositionUsecase.AttachEntry called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingSectionKey, request.Section),
		zap.String(constvars.LoggingReferenceKey, request.Reference),
	)

	reference, err := utils.NormalizeReference(request.Reference)
	if err != nil {
		return nil, exceptions.ErrInvalidReference(err, request.Reference)
	}

	document, err := uc.CompositionFhirClient.FindCompositionByPatientID(ctx, patientID)
	if err != nil {
		uc.Log.Error("compositionUsecase.AttachEntry error calling CompositionFhirClient.FindCompositionByPatientID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCompositionNotFound(err, patientID)
	}

	definition, ok := timeline.FindSection(request.Section)
	if !ok {
		return nil, exceptions.ErrSectionNotFound(nil, document.ID, request.Section)
	}

	resource, ok := deepCopy(document.Resource.Raw()).(map[string]interface{})
	if !ok {
		return nil, exceptions.ErrCompositionNotFound(nil, patientID)
	}

	section := findSection(resource, definition)
	if section == nil {
		return nil, exceptions.ErrSectionNotFound(nil, document.ID, request.Section)
	}

	response := &responses.AttachEntry{
		CompositionID: document.ID,
		Section:       definition.Title,
		Reference:     reference,
	}

	entries, _ := section["entry"].([]interface{})
	for _, entry := range entries {
		if sameReference(entry, reference) {
			uc.Log.Info("compositionUsecase.AttachEntry reference already attached",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCompositionIDKey, document.ID),
			)
			return response, nil
		}
	}
	section["entry"] = append(entries, map[string]interface{}{"reference": reference})

	if _, err := uc.CompositionFhirClient.UpdateComposition(ctx, document.ID, resource); err != nil {
		uc.Log.Error("compositionUsecase.AttachEntry error calling CompositionFhirClient.UpdateComposition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCompositionIDKey, document.ID),
			zap.Error(err),
		)
		return nil, err
	}

	response.Attached = true
	uc.Log.Info("compositionUsecase.AttachEntry succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCompositionIDKey, document.ID),
	)
	return response, nil
}

// DetachReference removes reference from every section of every listed
// Composition. Only Compositions that changed are written back.
func (uc *compositionUsecase) DetachReference(ctx context.Context, reference string) (*responses.DetachReference, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("compositionUsecase.DetachReference called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReferenceKey, reference),
	)

	normalized, err := utils.NormalizeReference(reference)
	if err != nil {
		return nil, exceptions.ErrInvalidReference(err, reference)
	}

	documents, err := uc.CompositionFhirClient.FindCompositions(ctx)
	if err != nil {
		uc.Log.Error("compositionUsecase.DetachReference error calling CompositionFhirClient.FindCompositions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	response := &responses.DetachReference{
		Reference:           normalized,
		UpdatedCompositions: []string{},
		ScannedCompositions: len(documents),
	}
	for _, document := range documents {
		resource, ok := deepCopy(document.Resource.Raw()).(map[string]interface{})
		if !ok || !removeReference(resource, normalized) {
			continue
		}
		if _, err := uc.CompositionFhirClient.UpdateComposition(ctx, document.ID, resource); err != nil {
			uc.Log.Error("compositionUsecase.DetachReference error calling CompositionFhirClient.UpdateComposition",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingCompositionIDKey, document.ID),
				zap.Error(err),
			)
			return nil, err
		}
		response.UpdatedCompositions = append(response.UpdatedCompositions, document.ID)
	}

	uc.Log.Info("compositionUsecase.DetachReference succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEntriesCountKey, len(response.UpdatedCompositions)),
	)
	return response, nil
}

func findSection(resource map[string]interface{}, definition timeline.SectionDefinition) map[string]interface{} {
	sections, _ := resource["section"].([]interface{})
	for _, raw := range sections {
		section, ok := raw.(map[string]interface{})
		if ok && definition.Matches(accessor.Wrap(section)) {
			return section
		}
	}
	return nil
}

func removeReference(resource map[string]interface{}, reference string) bool {
	changed := false
	sections, _ := resource["section"].([]interface{})
	for _, raw := range sections {
		section, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		entries, ok := section["entry"].([]interface{})
		if !ok {
			continue
		}
		kept := make([]interface{}, 0, len(entries))
		for _, entry := range entries {
			if sameReference(entry, reference) {
				changed = true
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) != len(entries) {
			section["entry"] = kept
		}
	}
	return changed
}

func sameReference(entry interface{}, reference string) bool {
	raw := accessor.Wrap(entry).Get("reference").String("")
	normalized, err := utils.NormalizeReference(raw)
	return err == nil && normalized == reference
}

func deepCopy(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		copied := make(map[string]interface{}, len(v))
		for key, item := range v {
			copied[key] = deepCopy(item)
		}
		return copied
	case []interface{}:
		copied := make([]interface{}, len(v))
		for i, item := range v {
			copied[i] = deepCopy(item)
		}
		return copied
	default:
		return v
	}
}
