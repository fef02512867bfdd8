package timeline

import (
	"ips-timeline-service/internal/app/models"
	"ips-timeline-service/internal/app/services/core/reference_ranges"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// firstString returns the first non-empty string among nodes.
func firstString(def string, nodes ...accessor.Node) string {
	for _, node := range nodes {
		if value := node.String(""); value != "" {
			return value
		}
	}
	return def
}

// quantity renders a valueQuantity as "<value> <code>", falling back to unit.
func quantity(node accessor.Node) (string, bool) {
	value := node.Get("value").String("")
	if value == "" {
		return "", false
	}
	unit := firstString("", node.Get("code"), node.Get("unit"))
	if unit == "" {
		return value, true
	}
	return value + " " + unit, true
}

func codingDisplay(concept accessor.Node) string {
	return concept.Get("coding", 0, "display").String("")
}

// resultTitle files an observation under its analyte's entry title when one of
// its codings matches the reference range table.
func resultTitle(code accessor.Node) string {
	for _, coding := range code.Get("coding").Items() {
		analyte, ok := reference_ranges.AnalyteForCode(coding.Get("code").String(""))
		if !ok {
			continue
		}
		if referenceRange, err := reference_ranges.Range(analyte); err == nil {
			return referenceRange.EntryTitle
		}
	}
	return constvars.TimelineTitleResults
}

func extractResult(acc *Accumulator, resource accessor.Node) {
	code := resource.Get("code")
	value, ok := quantity(resource.Get("valueQuantity"))
	if !ok {
		value = constvars.PlaceholderNoValue
	}

	acc.Add(models.TimelineEntry{
		Title: resultTitle(code),
		Name:  firstString("", code.Get("coding", 0, "display"), code.Get("text")),
		Date: firstString("",
			resource.Get("effectiveDateTime"),
			resource.Get("effectivePeriod", "start"),
			resource.Get("issued"),
		),
		Value: value,
	})
}

func extractMedication(acc *Accumulator, resource accessor.Node) {
	var title, date string
	resourceType := resource.Get("resourceType").String("")
	switch resourceType {
	case constvars.ResourceMedicationRequest:
		title = constvars.TimelineTitleMedicationRequests
		date = resource.Get("authoredOn").String("")
	case constvars.ResourceMedicationStatement:
		title = constvars.TimelineTitleMedicationStatements
		date = firstString("", resource.Get("effectiveDateTime"), resource.Get("effectivePeriod", "start"))
	case constvars.ResourceMedicationAdministration:
		title = constvars.TimelineTitleMedicationAdministrations
		date = firstString("", resource.Get("effectiveDateTime"), resource.Get("effectivePeriod", "start"))
	case constvars.ResourceMedicationDispense:
		title = constvars.TimelineTitleMedicationDispenses
		date = firstString("", resource.Get("whenPrepared"), resource.Get("whenHandedOver"))
	default:
		acc.Logger().Debug("timeline.extractMedication skipping unsupported resource type",
			zap.String(constvars.LoggingRequestIDKey, acc.requestID),
			zap.String(constvars.LoggingResourceTypeKey, resourceType),
		)
		return
	}

	concept := resource.Get("medicationCodeableConcept")
	acc.Add(models.TimelineEntry{
		Title: title,
		Name: firstString("",
			concept.Get("coding", 0, "display"),
			concept.Get("text"),
			resource.Get("medicationReference", "display"),
		),
		Date: date,
	})
}

func extractProblem(acc *Accumulator, resource accessor.Node) {
	code := resource.Get("code")
	acc.Add(models.TimelineEntry{
		Title: constvars.TimelineTitleProblems,
		Name:  firstString("", code.Get("coding", 0, "display"), code.Get("text")),
		Date: firstString("",
			resource.Get("onsetDateTime"),
			resource.Get("onsetPeriod", "start"),
			resource.Get("recordedDate"),
		),
	})
}

func extractAllergy(acc *Accumulator, resource accessor.Node) {
	code := resource.Get("code")
	acc.Add(models.TimelineEntry{
		Title:       constvars.TimelineTitleAllergyIntolerance,
		Name:        firstString("", code.Get("coding", 0, "display"), code.Get("text")),
		Date:        firstString("", resource.Get("onsetDateTime"), resource.Get("recordedDate")),
		Reaction:    resource.Get("reaction", 0, "manifestation", 0, "coding", 0, "display").String(constvars.PlaceholderNoReaction),
		Criticality: resource.Get("criticality").String(constvars.PlaceholderNoCriticality),
	})
}

func extractVitalSign(acc *Accumulator, resource accessor.Node) {
	entry := models.TimelineEntry{
		Title: constvars.TimelineTitleVitalSigns,
		Name:  codingDisplay(resource.Get("code")),
		Date:  resource.Get("effectiveDateTime").String(""),
	}

	components := resource.Get("component").Items()
	if value, ok := quantity(resource.Get("valueQuantity")); ok {
		entry.Value = value
	} else if len(components) > 0 {
		for _, component := range components {
			value, ok := quantity(component.Get("valueQuantity"))
			if !ok {
				value = constvars.PlaceholderNoVitalValue
			}
			entry.Components = append(entry.Components, models.Component{
				Name:  component.Get("code", "coding", 0, "display").String(constvars.PlaceholderNoName),
				Value: value,
			})
		}
	} else {
		entry.Value = resource.Get("valueString").String(constvars.PlaceholderNoVitalValue)
	}

	acc.Add(entry)
}

func extractSocialHistory(acc *Accumulator, resource accessor.Node) {
	acc.Add(models.TimelineEntry{
		Title:  constvars.TimelineTitleSocialHistory,
		Name:   constvars.TimelineNameSocialHistory,
		Date:   firstString("", resource.Get("effectiveDateTime"), resource.Get("effectivePeriod", "start")),
		Value:  resource.Get("valueCodeableConcept", "coding", 0, "display").String(constvars.PlaceholderNoValue),
		Note:   resource.Get("note", 0, "text").String(constvars.PlaceholderNoNote),
		Method: resource.Get("method", "coding", 0, "display").String(constvars.PlaceholderNoMethod),
	})
}
