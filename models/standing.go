package models

// Standing is one row of a computed group (or overall) table. Derived data,
// recomputed on demand, never persisted.
type Standing struct {
	TeamID         string  `json:"teamId"`
	TeamName       string  `json:"teamName"`
	Group          string  `json:"group,omitempty"`
	Played         int     `json:"played"`
	Won            int     `json:"won"`
	Drawn          int     `json:"drawn"`
	Lost           int     `json:"lost"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
	Points         float64 `json:"points"`
}
