package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeamRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TeamRef
	}{
		{name: "team id", input: "team-123", want: TeamID("team-123")},
		{name: "display name", input: "FC Bayern", want: TeamID("FC Bayern")},
		{name: "group standing", input: "group:A:1", want: GroupStanding("A", 1)},
		{name: "group standing lower position", input: "group:B:4", want: GroupStanding("B", 4)},
		{name: "best second", input: "best-second", want: BestSecond()},
		{name: "winner of", input: "winner-of:sf-1", want: WinnerOf("sf-1")},
		{name: "loser of", input: "loser-of:qf-3", want: LoserOf("qf-3")},
		{name: "tbd", input: "TBD", want: Unknown()},
		{name: "empty", input: "", want: Unknown()},
		{name: "whitespace", input: "  team-1  ", want: TeamID("team-1")},
		{name: "malformed group position", input: "group:A:x", want: Unknown()},
		{name: "zero group position", input: "group:A:0", want: Unknown()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTeamRef(tt.input))
		})
	}
}

func TestTeamRefStringRoundTrip(t *testing.T) {
	refs := []TeamRef{
		TeamID("team-42"),
		GroupStanding("A", 1),
		GroupStanding("C", 3),
		BestSecond(),
		WinnerOf("sf-2"),
		LoserOf("final"),
		Unknown(),
	}

	for _, ref := range refs {
		t.Run(ref.String(), func(t *testing.T) {
			assert.Equal(t, ref, ParseTeamRef(ref.String()))
		})
	}
}

func TestTeamRefResolved(t *testing.T) {
	assert.True(t, TeamID("x").Resolved())
	assert.False(t, TeamID("x").Placeholder())

	for _, ref := range []TeamRef{GroupStanding("A", 1), BestSecond(), WinnerOf("m"), LoserOf("m"), Unknown()} {
		assert.True(t, ref.Placeholder(), "ref %s should be a placeholder", ref)
	}
}

func TestTeamRefJSON(t *testing.T) {
	type wrapper struct {
		Ref TeamRef `json:"ref"`
	}

	data, err := json.Marshal(wrapper{Ref: GroupStanding("Gruppe A", 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"group:A:2"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"ref":"winner-of:sf-1"}`), &w))
	assert.Equal(t, WinnerOf("sf-1"), w.Ref)
}

func TestCanonicalGroupKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"A", "A"},
		{"a", "A"},
		{"Gruppe A", "A"},
		{"gruppe b", "B"},
		{"Group C", "C"},
		{"GROUP D", "D"},
		{"  Gruppe A  ", "A"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalGroupKey(tt.input))
		})
	}
}

func TestMatchWinnerLoser(t *testing.T) {
	score := func(a, b int) *Match {
		return &Match{TeamA: TeamID("a"), TeamB: TeamID("b"), ScoreA: &a, ScoreB: &b}
	}

	winner, ok := score(3, 1).WinnerTeamID()
	require.True(t, ok)
	assert.Equal(t, "a", winner)

	loser, ok := score(3, 1).LoserTeamID()
	require.True(t, ok)
	assert.Equal(t, "b", loser)

	_, ok = score(2, 2).WinnerTeamID()
	assert.False(t, ok, "a draw has no winner")

	unresolved := &Match{TeamA: WinnerOf("sf-1"), TeamB: TeamID("b")}
	one := 1
	zero := 0
	unresolved.ScoreA, unresolved.ScoreB = &one, &zero
	_, ok = unresolved.WinnerTeamID()
	assert.False(t, ok, "placeholder sides never produce a winner")
}

func TestTournamentClone(t *testing.T) {
	one := 1
	original := &Tournament{
		ID:      "t1",
		Teams:   []Team{{ID: "a", Name: "Alpha"}},
		Matches: []Match{{ID: "m1", TeamA: TeamID("a"), TeamB: TeamID("b"), ScoreA: &one, ScoreB: &one}},
	}

	clone := original.Clone()
	*clone.Matches[0].ScoreA = 9
	clone.Matches[0].TeamA = TeamID("z")
	clone.Teams[0].Name = "Changed"

	assert.Equal(t, 1, *original.Matches[0].ScoreA)
	assert.Equal(t, "a", original.Matches[0].TeamA.TeamID)
	assert.Equal(t, "Alpha", original.Teams[0].Name)
}

func TestGroupKeys(t *testing.T) {
	tournament := &Tournament{Matches: []Match{
		{ID: "1", Group: "Gruppe B"},
		{ID: "2", Group: "A"},
		{ID: "3", Group: "Group A"},
		{ID: "4", IsFinal: true},
	}}

	assert.Equal(t, []string{"A", "B"}, tournament.GroupKeys())
}
