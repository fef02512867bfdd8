package utils

import (
	"fmt"
	"strings"
	"time"
)

// FHIR date and dateTime layouts, most specific first.
var fhirDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseFHIRDate parses a FHIR date, dateTime or instant. Partial dates
// resolve to the first instant of the period they name.
func ParseFHIRDate(value string) (time.Time, error) {
	parsed, _, err := parseFHIRDate(value)
	return parsed, err
}

func parseFHIRDate(value string) (time.Time, string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}
	for _, layout := range fhirDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognised FHIR date %q", value)
}

// ParseDateFilter parses an inclusive filter bound. An upper bound given as a
// year, month, day or minute covers the last instant of that period.
func ParseDateFilter(value string, upper bool) (time.Time, error) {
	parsed, layout, err := parseFHIRDate(value)
	if err != nil || !upper {
		return parsed, err
	}

	var end time.Time
	switch layout {
	case "2006":
		end = parsed.AddDate(1, 0, 0)
	case "2006-01":
		end = parsed.AddDate(0, 1, 0)
	case "2006-01-02":
		end = parsed.AddDate(0, 0, 1)
	case "2006-01-02T15:04":
		end = parsed.Add(time.Minute)
	default:
		return parsed, nil
	}
	return end.Add(-time.Nanosecond), nil
}
