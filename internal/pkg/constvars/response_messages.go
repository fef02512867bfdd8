package constvars

const (
	ResponseUnknown = "unknown"

	GetTimelineSuccessMessage        = "get patient timeline successfully"
	ResetSessionSuccessMessage       = "session reset successfully"
	GetLaboratorySuccessMessage      = "get laboratory results successfully"
	GetReferenceRangesSuccessMessage = "get reference ranges successfully"
	ClassifyValueSuccessMessage      = "value classified successfully"
	AttachEntrySuccessMessage        = "entry attached to composition successfully"
	DetachReferenceSuccessMessage    = "reference removed from compositions successfully"
)
