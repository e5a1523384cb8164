package models

// Team is a tournament participant. Immutable once the schedule exists; the
// group assignment may only change before generation.
type Team struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Group string `json:"group,omitempty" db:"group_key"`
}
