package domain

import "strings"

// Priority is the canonical task priority bucket.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// PriorityOrder is the fixed display order, most urgent first.
var PriorityOrder = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

var priorityLabels = map[Priority]string{
	PriorityCritical: "Urgente",
	PriorityHigh:     "Alta",
	PriorityMedium:   "Media",
	PriorityLow:      "Baixa",
}

// Label returns the display label for the priority bucket.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return priorityLabels[PriorityMedium]
}

// NormalizePriority maps a raw priority value (Portuguese or English, any
// case) onto a canonical bucket. Empty or unknown values default to Medium.
func NormalizePriority(raw string) Priority {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case "URGENTE", "URGENT", "CRITICAL":
		return PriorityCritical
	case "ALTA", "HIGH":
		return PriorityHigh
	case "BAIXA", "LOW":
		return PriorityLow
	case "", "MEDIA", "MÉDIA", "MEDIUM":
		return PriorityMedium
	}
	return PriorityMedium
}
