package schedule

import (
	"testing"

	"github.com/Stieges/hallenfussball-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupsOf(sizes ...int) []group {
	groups := make([]group, len(sizes))
	for i, size := range sizes {
		g := group{Key: groupLetters[i]}
		for j := 0; j < size; j++ {
			g.Teams = append(g.Teams, groupLetters[i]+string(rune('1'+j)))
		}
		groups[i] = g
	}
	return groups
}

func matchByID(matches []models.Match, id string) *models.Match {
	for i := range matches {
		if matches[i].ID == id {
			return &matches[i]
		}
	}
	return nil
}

func finalsConfig(preset models.FinalsPreset, thirdPlace bool) models.TournamentConfig {
	return models.TournamentConfig{
		GroupSystem: models.GroupSystemGroupsAndFinals,
		Finals:      models.FinalsConfig{Preset: preset, ThirdPlaceMatch: thirdPlace},
	}
}

func TestBuildFinalsFinalOnly(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetFinalOnly, false), groupsOf(3, 3), 3)

	require.Len(t, layout.matches, 1)
	final := layout.matches[0]
	assert.Equal(t, models.FinalTypeFinal, final.FinalType)
	assert.Equal(t, models.GroupStanding("A", 1), final.TeamA)
	assert.Equal(t, models.GroupStanding("B", 1), final.TeamB)
	assert.Equal(t, 4, final.Round, "bracket starts after the group rounds")
}

func TestBuildFinalsFinalOnlySingleGroup(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetFinalOnly, false), groupsOf(4), 3)

	require.Len(t, layout.matches, 1)
	assert.Equal(t, models.GroupStanding("A", 1), layout.matches[0].TeamA)
	assert.Equal(t, models.GroupStanding("A", 2), layout.matches[0].TeamB)
}

func TestBuildFinalsTop4TwoGroupsCrossPairing(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetTop4, true), groupsOf(4, 4), 3)

	require.Len(t, layout.matches, 4)

	sf1 := matchByID(layout.matches, "sf-1")
	require.NotNil(t, sf1)
	assert.Equal(t, models.GroupStanding("A", 1), sf1.TeamA)
	assert.Equal(t, models.GroupStanding("B", 2), sf1.TeamB)

	sf2 := matchByID(layout.matches, "sf-2")
	require.NotNil(t, sf2)
	assert.Equal(t, models.GroupStanding("B", 1), sf2.TeamA)
	assert.Equal(t, models.GroupStanding("A", 2), sf2.TeamB)

	third := matchByID(layout.matches, "third-place")
	require.NotNil(t, third)
	assert.Equal(t, models.LoserOf("sf-1"), third.TeamA)
	assert.Equal(t, models.LoserOf("sf-2"), third.TeamB)

	final := matchByID(layout.matches, "final")
	require.NotNil(t, final)
	assert.Equal(t, models.WinnerOf("sf-1"), final.TeamA)
	assert.Equal(t, models.WinnerOf("sf-2"), final.TeamB)

	// Play order: semifinals, then third place before the final.
	assert.Equal(t, "sf-1", layout.matches[0].ID)
	assert.Equal(t, "sf-2", layout.matches[1].ID)
	assert.Equal(t, "third-place", layout.matches[2].ID)
	assert.Equal(t, "final", layout.matches[3].ID)
}

func TestBuildFinalsTop4ThreeGroupsBestSecond(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetTop4, false), groupsOf(3, 3, 3), 3)

	sf1 := matchByID(layout.matches, "sf-1")
	require.NotNil(t, sf1)
	assert.Equal(t, models.GroupStanding("A", 1), sf1.TeamA)
	assert.Equal(t, models.BestSecond(), sf1.TeamB)

	sf2 := matchByID(layout.matches, "sf-2")
	require.NotNil(t, sf2)
	assert.Equal(t, models.GroupStanding("B", 1), sf2.TeamA)
	assert.Equal(t, models.GroupStanding("C", 1), sf2.TeamB)

	assert.Nil(t, matchByID(layout.matches, "third-place"))
}

func TestBuildFinalsTop8(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetTop8, false), groupsOf(4, 4, 4, 4), 3)

	assert.Equal(t, models.FinalsPresetTop8, layout.preset)
	require.Len(t, layout.matches, 7) // 4 QF + 2 SF + final

	qf1 := matchByID(layout.matches, "qf-1")
	require.NotNil(t, qf1)
	assert.Equal(t, models.GroupStanding("A", 1), qf1.TeamA)
	assert.Equal(t, models.GroupStanding("B", 2), qf1.TeamB)

	sf1 := matchByID(layout.matches, "sf-1")
	require.NotNil(t, sf1)
	assert.Equal(t, models.WinnerOf("qf-1"), sf1.TeamA)
	assert.Equal(t, models.WinnerOf("qf-2"), sf1.TeamB)
}

func TestBuildFinalsTop8TwoLargeGroups(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetTop8, false), groupsOf(5, 5), 5)

	assert.Equal(t, models.FinalsPresetTop8, layout.preset)
	qf1 := matchByID(layout.matches, "qf-1")
	require.NotNil(t, qf1)
	assert.Equal(t, models.GroupStanding("A", 1), qf1.TeamA)
	assert.Equal(t, models.GroupStanding("B", 4), qf1.TeamB)
}

func TestBuildFinalsDowngrade(t *testing.T) {
	tests := []struct {
		name   string
		preset models.FinalsPreset
		groups []group
		want   models.FinalsPreset
	}{
		{name: "top8 with two small groups", preset: models.FinalsPresetTop8, groups: groupsOf(3, 3), want: models.FinalsPresetTop4},
		{name: "top16 with two groups", preset: models.FinalsPresetTop16, groups: groupsOf(4, 4), want: models.FinalsPresetTop8},
		{name: "top16 with three groups", preset: models.FinalsPresetTop16, groups: groupsOf(3, 3, 3), want: models.FinalsPresetTop4},
		{name: "top4 with one tiny group", preset: models.FinalsPresetTop4, groups: groupsOf(3), want: models.FinalsPresetFinalOnly},
		{name: "top16 supported", preset: models.FinalsPresetTop16, groups: groupsOf(2, 2, 2, 2, 2, 2, 2, 2), want: models.FinalsPresetTop16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := buildFinals(finalsConfig(tt.preset, false), tt.groups, 3)
			assert.Equal(t, tt.want, layout.preset)
		})
	}
}

func TestBuildFinalsTop16EightGroups(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetTop16, false), groupsOf(2, 2, 2, 2, 2, 2, 2, 2), 1)

	require.Len(t, layout.matches, 15) // 8 R16 + 4 QF + 2 SF + final
	r16 := matchByID(layout.matches, "r16-1")
	require.NotNil(t, r16)
	assert.Equal(t, models.GroupStanding("A", 1), r16.TeamA)
	assert.Equal(t, models.GroupStanding("B", 2), r16.TeamB)
}

func TestBuildFinalsAllPlacesWithQuarterfinals(t *testing.T) {
	layout := buildFinals(finalsConfig(models.FinalsPresetAllPlaces, false), groupsOf(4, 4, 4, 4), 3)

	assert.Equal(t, models.FinalsPresetAllPlaces, layout.preset)
	require.Len(t, layout.matches, 10) // 4 QF + 2 SF + 5/6 + 7/8 + 3rd + final

	fifth := matchByID(layout.matches, "place-5-6")
	require.NotNil(t, fifth)
	assert.Equal(t, models.LoserOf("qf-1"), fifth.TeamA)
	assert.Equal(t, models.LoserOf("qf-2"), fifth.TeamB)

	seventh := matchByID(layout.matches, "place-7-8")
	require.NotNil(t, seventh)
	assert.Equal(t, models.LoserOf("qf-3"), seventh.TeamA)
	assert.Equal(t, models.LoserOf("qf-4"), seventh.TeamB)

	require.NotNil(t, matchByID(layout.matches, "third-place"))
}

func TestBuildFinalsAllPlacesTwoGroupsOfThree(t *testing.T) {
	// No quarterfinal layer fits; 5th/6th comes straight from the group
	// tables and 7th/8th cannot exist.
	layout := buildFinals(finalsConfig(models.FinalsPresetAllPlaces, false), groupsOf(3, 3), 3)

	fifth := matchByID(layout.matches, "place-5-6")
	require.NotNil(t, fifth)
	assert.Equal(t, models.GroupStanding("A", 3), fifth.TeamA)
	assert.Equal(t, models.GroupStanding("B", 3), fifth.TeamB)

	assert.Nil(t, matchByID(layout.matches, "place-7-8"))
	require.NotNil(t, matchByID(layout.matches, "third-place"))
	require.NotNil(t, matchByID(layout.matches, "final"))
}

func TestBuildFinalsAllPlacesTwoGroupsOfFour(t *testing.T) {
	// Two groups of four support a full top8, so placements come from
	// quarterfinal losers.
	layout := buildFinals(finalsConfig(models.FinalsPresetAllPlaces, false), groupsOf(4, 4), 3)

	fifth := matchByID(layout.matches, "place-5-6")
	require.NotNil(t, fifth)
	assert.Equal(t, models.LoserOf("qf-1"), fifth.TeamA)

	seventh := matchByID(layout.matches, "place-7-8")
	require.NotNil(t, seventh)
}

func TestCheckFairnessBackToBack(t *testing.T) {
	s := &models.Schedule{Matches: []models.Match{
		{ID: "1", TeamA: models.TeamID("a"), TeamB: models.TeamID("b"), Slot: 0, Field: 1},
		{ID: "2", TeamA: models.TeamID("a"), TeamB: models.TeamID("c"), Slot: 1, Field: 1},
	}}

	warnings := CheckFairness(s)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "back-to-back")
	assert.Contains(t, warnings[0], "a")
}

func TestCheckFairnessCleanSchedule(t *testing.T) {
	cfg := baseConfig()
	cfg.MinRestSlots = 1
	cfg.NumberOfFields = 2

	s, err := Generate(cfg, makeTeams(6))
	require.NoError(t, err)
	for _, w := range CheckFairness(s) {
		assert.NotContains(t, w, "back-to-back")
	}
}
