package timeline

import (
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"strings"
)

type SectionCategory int

const (
	SectionUnknown SectionCategory = iota
	SectionResults
	SectionMedications
	SectionProblems
	SectionAllergies
	SectionVitalSigns
	SectionSocialHistory
)

func (c SectionCategory) String() string {
	switch c {
	case SectionResults:
		return "results"
	case SectionMedications:
		return "medications"
	case SectionProblems:
		return "problems"
	case SectionAllergies:
		return "allergies"
	case SectionVitalSigns:
		return "vital_signs"
	case SectionSocialHistory:
		return "social_history"
	default:
		return "unknown"
	}
}

// Extractor turns one resolved resource into zero or more timeline entries.
type Extractor func(acc *Accumulator, resource accessor.Node)

type SectionDefinition struct {
	Category  SectionCategory
	Code      string
	Title     string
	Extractor Extractor
}

var sectionRegistry = []SectionDefinition{
	{Category: SectionResults, Code: constvars.LoincSectionResults, Title: constvars.SectionTitleResults, Extractor: extractResult},
	{Category: SectionMedications, Code: constvars.LoincSectionMedications, Title: constvars.SectionTitleMedications, Extractor: extractMedication},
	{Category: SectionProblems, Code: constvars.LoincSectionProblems, Title: constvars.SectionTitleProblems, Extractor: extractProblem},
	{Category: SectionAllergies, Code: constvars.LoincSectionAllergies, Title: constvars.SectionTitleAllergies, Extractor: extractAllergy},
	{Category: SectionVitalSigns, Code: constvars.LoincSectionVitalSigns, Title: constvars.SectionTitleVitalSigns, Extractor: extractVitalSign},
	{Category: SectionSocialHistory, Code: constvars.LoincSectionSocialHistory, Title: constvars.SectionTitleSocialHistory, Extractor: extractSocialHistory},
}

func Sections() []SectionDefinition {
	return append([]SectionDefinition(nil), sectionRegistry...)
}

// ResolveSection finds the definition for a Composition section. Any coded
// identifier wins over the title.
func ResolveSection(section accessor.Node) (SectionDefinition, bool) {
	for _, coding := range section.Get("code", "coding").Items() {
		code := coding.Get("code").String("")
		for _, definition := range sectionRegistry {
			if definition.Code == code {
				return definition, true
			}
		}
	}

	title := strings.TrimSpace(section.Get("title").String(""))
	for _, definition := range sectionRegistry {
		if strings.EqualFold(definition.Title, title) {
			return definition, true
		}
	}
	return SectionDefinition{Category: SectionUnknown}, false
}

// FindSection resolves a section selector given by category name, LOINC code
// or title.
func FindSection(selector string) (SectionDefinition, bool) {
	selector = strings.TrimSpace(selector)
	for _, definition := range sectionRegistry {
		if strings.EqualFold(definition.Category.String(), selector) ||
			definition.Code == selector ||
			strings.EqualFold(definition.Title, selector) {
			return definition, true
		}
	}
	return SectionDefinition{Category: SectionUnknown}, false
}

// Matches reports whether a raw Composition section belongs to the definition.
func (d SectionDefinition) Matches(section accessor.Node) bool {
	resolved, ok := ResolveSection(section)
	return ok && resolved.Category == d.Category
}
