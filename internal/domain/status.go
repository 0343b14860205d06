package domain

import "strings"

// Status is the canonical status category of a WBS node. Upstream data
// carries free-text labels and backend enum codes in several spellings
// (Portuguese and English); everything is funneled through NormalizeStatus
// before any branching happens.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusLate
	StatusAtRisk
	StatusInReview
	StatusDone
)

// StatusOrder is the fixed display order of the six categories.
var StatusOrder = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusLate,
	StatusAtRisk,
	StatusInReview,
	StatusDone,
}

var statusLabels = map[Status]string{
	StatusNotStarted: "Não iniciado",
	StatusInProgress: "Em andamento",
	StatusLate:       "Em atraso",
	StatusAtRisk:     "Em risco",
	StatusInReview:   "Homologação",
	StatusDone:       "Finalizado",
}

var statusCodes = map[Status]string{
	StatusNotStarted: "BACKLOG",
	StatusInProgress: "IN_PROGRESS",
	StatusLate:       "DELAYED",
	StatusAtRisk:     "RISK",
	StatusInReview:   "REVIEW",
	StatusDone:       "DONE",
}

// Label returns the locale display label for the category.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return statusLabels[StatusNotStarted]
}

// BackendCode returns the backend enum code persisted for the category.
func (s Status) BackendCode() string {
	if code, ok := statusCodes[s]; ok {
		return code
	}
	return statusCodes[StatusNotStarted]
}

// NormalizeStatus classifies an arbitrary raw status label into one of the
// six canonical categories. The match is substring-based and case
// insensitive so that backend codes ("IN_PROGRESS"), Portuguese labels
// ("Em andamento") and loose English ("doing") all land in the same bucket.
// Empty or unrecognized input degrades to StatusNotStarted; this function
// never fails.
func NormalizeStatus(raw string) Status {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return StatusNotStarted
	}

	switch {
	case strings.Contains(v, "backlog"), strings.Contains(v, "planej"),
		strings.Contains(v, "planned"), v == "todo":
		return StatusNotStarted
	case strings.Contains(v, "revis"), strings.Contains(v, "review"),
		strings.Contains(v, "homolog"):
		return StatusInReview
	case strings.Contains(v, "final"), strings.Contains(v, "done"),
		strings.Contains(v, "conclu"), strings.Contains(v, "complete"):
		return StatusDone
	case strings.Contains(v, "andam"), strings.Contains(v, "progress"),
		strings.Contains(v, "doing"):
		return StatusInProgress
	case strings.Contains(v, "atras"), strings.Contains(v, "delay"),
		strings.Contains(v, "late"), strings.Contains(v, "overdue"):
		return StatusLate
	case strings.Contains(v, "risco"), strings.Contains(v, "risk"),
		strings.Contains(v, "blocked"):
		return StatusAtRisk
	}
	return StatusNotStarted
}

// IsDone reports whether the raw label normalizes to the Done category.
func IsDone(raw string) bool {
	return NormalizeStatus(raw) == StatusDone
}
