package models

import (
	"bytes"
	"fmt"
	"ips-timeline-service/internal/pkg/constvars"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Component is one Name i / Value i pair of a multi-component observation.
type Component struct {
	Name  string
	Value string
}

// TimelineEntry is the normalised view of a single clinical resource.
// Empty optional fields are left out of its JSON form.
type TimelineEntry struct {
	Title       string
	Name        string
	Date        string
	Value       string
	Reaction    string
	Criticality string
	Note        string
	Method      string
	Components  []Component
}

func (e TimelineEntry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key, value string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return err
		}
		encodedValue, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
		return nil
	}

	if err := write(constvars.TimelineKeyTitle, e.Title); err != nil {
		return nil, err
	}
	optional := []struct{ key, value string }{
		{constvars.TimelineKeyName, e.Name},
		{constvars.TimelineKeyDate, e.Date},
		{constvars.TimelineKeyValue, e.Value},
		{constvars.TimelineKeyReaction, e.Reaction},
		{constvars.TimelineKeyCriticality, e.Criticality},
		{constvars.TimelineKeyNote, e.Note},
		{constvars.TimelineKeyMethod, e.Method},
	}
	for _, field := range optional {
		if field.value == "" {
			continue
		}
		if err := write(field.key, field.value); err != nil {
			return nil, err
		}
	}
	for i, component := range e.Components {
		index := strconv.Itoa(i + 1)
		if err := write(constvars.TimelineKeyName+" "+index, component.Name); err != nil {
			return nil, err
		}
		if err := write(constvars.TimelineKeyValue+" "+index, component.Value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *TimelineEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*e = TimelineEntry{
		Title:       fields[constvars.TimelineKeyTitle],
		Name:        fields[constvars.TimelineKeyName],
		Date:        fields[constvars.TimelineKeyDate],
		Value:       fields[constvars.TimelineKeyValue],
		Reaction:    fields[constvars.TimelineKeyReaction],
		Criticality: fields[constvars.TimelineKeyCriticality],
		Note:        fields[constvars.TimelineKeyNote],
		Method:      fields[constvars.TimelineKeyMethod],
	}

	components := map[int]*Component{}
	for key, value := range fields {
		prefix, rawIndex, found := strings.Cut(key, " ")
		if !found {
			continue
		}
		index, err := strconv.Atoi(rawIndex)
		if err != nil || index < 1 {
			return fmt.Errorf("timeline entry key %q has an invalid component index", key)
		}
		component, ok := components[index]
		if !ok {
			component = &Component{}
			components[index] = component
		}
		switch prefix {
		case constvars.TimelineKeyName:
			component.Name = value
		case constvars.TimelineKeyValue:
			component.Value = value
		default:
			return fmt.Errorf("timeline entry key %q is not recognised", key)
		}
	}

	indices := make([]int, 0, len(components))
	for index := range components {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	for _, index := range indices {
		e.Components = append(e.Components, *components[index])
	}
	return nil
}

type BuildStats struct {
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// Timeline is the ordered set of entries built from one Composition.
// Unscheduled holds entries whose resource carries no usable date.
type Timeline struct {
	PatientID       string          `json:"patient_id"`
	CompositionID   string          `json:"composition_id"`
	VersionID       string          `json:"version_id,omitempty"`
	HistoryFallback bool            `json:"history_fallback"`
	Entries         []TimelineEntry `json:"entries"`
	Unscheduled     []TimelineEntry `json:"unscheduled"`
	Stats           BuildStats      `json:"stats"`
}

// EntriesWithTitle returns the dated entries whose Title equals title.
func (t *Timeline) EntriesWithTitle(title string) []TimelineEntry {
	var matched []TimelineEntry
	for _, entry := range t.Entries {
		if entry.Title == title {
			matched = append(matched, entry)
		}
	}
	return matched
}
