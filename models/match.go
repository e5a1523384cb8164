package models

import "time"

// FinalType tags the semantic role of a bracket match.
type FinalType string

const (
	FinalTypeNone          FinalType = ""
	FinalTypeRoundOf16     FinalType = "roundOf16"
	FinalTypeQuarterfinal  FinalType = "quarterfinal"
	FinalTypeSemifinal     FinalType = "semifinal"
	FinalTypeThirdPlace    FinalType = "thirdPlace"
	FinalTypeFifthSixth    FinalType = "fifthSixth"
	FinalTypeSeventhEighth FinalType = "seventhEighth"
	FinalTypeFinal         FinalType = "final"
)

// Match is a single scheduled game. Group-stage matches carry a group key,
// bracket matches carry IsFinal plus a FinalType. TeamA/TeamB may be symbolic
// placeholders until the bracket resolver replaces them.
type Match struct {
	ID        string    `json:"id" db:"id"`
	Round     int       `json:"round" db:"round"`
	Field     int       `json:"field" db:"field"`
	Slot      int       `json:"slot" db:"slot"`
	TeamA     TeamRef   `json:"teamA" db:"team_a"`
	TeamB     TeamRef   `json:"teamB" db:"team_b"`
	ScoreA    *int      `json:"scoreA,omitempty" db:"score_a"`
	ScoreB    *int      `json:"scoreB,omitempty" db:"score_b"`
	Group     string    `json:"group,omitempty" db:"group_key"`
	IsFinal   bool      `json:"isFinal,omitempty" db:"is_final"`
	FinalType FinalType `json:"finalType,omitempty" db:"final_type"`
	Label     string    `json:"label,omitempty" db:"label"`
	StartTime time.Time `json:"startTime" db:"start_time"`
}

// Complete reports whether both scores have been entered.
func (m *Match) Complete() bool { return m.ScoreA != nil && m.ScoreB != nil }

// Draw reports whether the match finished level.
func (m *Match) Draw() bool { return m.Complete() && *m.ScoreA == *m.ScoreB }

// Decided reports whether the match has a decisive (non-drawn) result.
func (m *Match) Decided() bool { return m.Complete() && *m.ScoreA != *m.ScoreB }

// WinnerTeamID returns the winning team id. Only meaningful when the match is
// decided and both sides are concrete teams.
func (m *Match) WinnerTeamID() (string, bool) {
	if !m.Decided() || m.TeamA.Placeholder() || m.TeamB.Placeholder() {
		return "", false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamA.TeamID, true
	}
	return m.TeamB.TeamID, true
}

// LoserTeamID returns the losing team id under the same conditions as
// WinnerTeamID.
func (m *Match) LoserTeamID() (string, bool) {
	if !m.Decided() || m.TeamA.Placeholder() || m.TeamB.Placeholder() {
		return "", false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamB.TeamID, true
	}
	return m.TeamA.TeamID, true
}

// HasPlaceholder reports whether either side still needs resolution.
func (m *Match) HasPlaceholder() bool {
	return m.TeamA.Placeholder() || m.TeamB.Placeholder()
}
