package models

import (
	"sort"
	"time"
)

// GroupSystem selects the overall tournament shape.
type GroupSystem string

const (
	GroupSystemRoundRobin      GroupSystem = "roundRobin"
	GroupSystemGroupsAndFinals GroupSystem = "groupsAndFinals"
)

// FinalsPreset selects the elimination bracket shape.
type FinalsPreset string

const (
	FinalsPresetNone      FinalsPreset = "none"
	FinalsPresetFinalOnly FinalsPreset = "finalOnly"
	FinalsPresetTop4      FinalsPreset = "top4"
	FinalsPresetTop8      FinalsPreset = "top8"
	FinalsPresetTop16     FinalsPreset = "top16"
	FinalsPresetAllPlaces FinalsPreset = "allPlaces"
)

// PointSystem holds the points awarded per match outcome. Values may be
// negative or fractional.
type PointSystem struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

func DefaultPointSystem() PointSystem { return PointSystem{Win: 3, Draw: 1, Loss: 0} }

// CriterionKind is one of the fixed tie-break criteria.
type CriterionKind string

const (
	CriterionPoints           CriterionKind = "points"
	CriterionGoalDifference   CriterionKind = "goalDifference"
	CriterionGoalsFor         CriterionKind = "goalsFor"
	CriterionDirectComparison CriterionKind = "directComparison"
)

// PlacementCriterion is one entry of the ordered tie-break chain.
type PlacementCriterion struct {
	Kind    CriterionKind `json:"kind"`
	Enabled bool          `json:"enabled"`
}

func DefaultPlacementLogic() []PlacementCriterion {
	return []PlacementCriterion{
		{Kind: CriterionPoints, Enabled: true},
		{Kind: CriterionGoalDifference, Enabled: true},
		{Kind: CriterionGoalsFor, Enabled: true},
		{Kind: CriterionDirectComparison, Enabled: true},
	}
}

// FinalsConfig describes the bracket skeleton. ParallelRounds controls only
// slot packing: whether same-round bracket matches may share a slot across
// fields.
type FinalsConfig struct {
	Preset          FinalsPreset       `json:"preset"`
	ThirdPlaceMatch bool               `json:"thirdPlaceMatch"`
	ParallelRounds  map[FinalType]bool `json:"parallelRounds,omitempty"`
}

// TournamentConfig is the validated configuration produced by the setup
// wizard or an import. Durations are minutes.
type TournamentConfig struct {
	GroupSystem             GroupSystem          `json:"groupSystem"`
	NumberOfGroups          int                  `json:"numberOfGroups"`
	NumberOfFields          int                  `json:"numberOfFields"`
	StartTime               time.Time            `json:"startTime"`
	GroupPhaseGameDuration  int                  `json:"groupPhaseGameDuration"`
	GroupPhaseBreakDuration int                  `json:"groupPhaseBreakDuration"`
	FinalRoundGameDuration  int                  `json:"finalRoundGameDuration"`
	FinalRoundBreakDuration int                  `json:"finalRoundBreakDuration"`
	BreakBetweenPhases      int                  `json:"breakBetweenPhases"`
	MinRestSlots            int                  `json:"minRestSlots"`
	Finals                  FinalsConfig         `json:"finals"`
	PointSystem             PointSystem          `json:"pointSystem"`
	PlacementLogic          []PlacementCriterion `json:"placementLogic"`
}

// HasFinals reports whether the configuration asks for a bracket phase.
func (c TournamentConfig) HasFinals() bool {
	return c.GroupSystem == GroupSystemGroupsAndFinals && c.Finals.Preset != FinalsPresetNone
}

// Tournament is the full aggregate: configuration, team list and all matches.
// The core packages treat it as immutable and return fresh copies.
type Tournament struct {
	ID        string           `json:"id" db:"id"`
	Title     string           `json:"title" db:"title"`
	Config    TournamentConfig `json:"config" db:"-"`
	Teams     []Team           `json:"teams,omitempty" db:"-"`
	Matches   []Match          `json:"matches,omitempty" db:"-"`
	Version   int              `json:"version" db:"version"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy of the aggregate. Matches and teams are copied so
// callers can mutate the clone without aliasing the original.
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Teams = append([]Team(nil), t.Teams...)
	c.Matches = append([]Match(nil), t.Matches...)
	for i := range c.Matches {
		if t.Matches[i].ScoreA != nil {
			a := *t.Matches[i].ScoreA
			c.Matches[i].ScoreA = &a
		}
		if t.Matches[i].ScoreB != nil {
			b := *t.Matches[i].ScoreB
			c.Matches[i].ScoreB = &b
		}
	}
	return &c
}

// MatchByID returns the match with the given id, or nil.
func (t *Tournament) MatchByID(id string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i]
		}
	}
	return nil
}

// GroupKeys returns the sorted canonical group keys present in the group
// stage.
func (t *Tournament) GroupKeys() []string {
	seen := make(map[string]bool)
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.IsFinal || m.Group == "" {
			continue
		}
		seen[CanonicalGroupKey(m.Group)] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
