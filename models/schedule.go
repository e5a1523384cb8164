package models

import "time"

// PhaseKind distinguishes the group stage from the elimination phase.
type PhaseKind string

const (
	PhaseGroup  PhaseKind = "group"
	PhaseFinals PhaseKind = "finals"
)

// Phase is one contiguous block of the schedule.
type Phase struct {
	Name      string    `json:"name"`
	Kind      PhaseKind `json:"kind"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Slots     int       `json:"slots"`
}

// Schedule is the full generator output. TotalDuration is minutes of
// wall-clock time from the first kickoff to the end of the last match.
type Schedule struct {
	Matches       []Match   `json:"matches"`
	Phases        []Phase   `json:"phases"`
	TotalDuration int       `json:"totalDuration"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}
