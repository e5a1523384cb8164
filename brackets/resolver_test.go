package brackets

import (
	"testing"

	"github.com/Stieges/hallenfussball-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func groupMatch(id, groupKey, teamA, teamB string, scoreA, scoreB *int) models.Match {
	return models.Match{
		ID:     id,
		TeamA:  models.TeamID(teamA),
		TeamB:  models.TeamID(teamB),
		ScoreA: scoreA,
		ScoreB: scoreB,
		Group:  groupKey,
	}
}

// twoGroupTournament builds two groups of two with a top4 bracket: semifinals
// cross-seeded from the group tables, then third place and final.
func twoGroupTournament() *models.Tournament {
	return &models.Tournament{
		ID: "t1",
		Config: models.TournamentConfig{
			PointSystem:    models.DefaultPointSystem(),
			PlacementLogic: models.DefaultPlacementLogic(),
		},
		Teams: []models.Team{
			{ID: "a1", Name: "Alpha"},
			{ID: "a2", Name: "Beta"},
			{ID: "b1", Name: "Gamma"},
			{ID: "b2", Name: "Delta"},
		},
		Matches: []models.Match{
			groupMatch("gA-1", "A", "a1", "a2", intPtr(2), intPtr(0)),
			groupMatch("gB-1", "B", "b1", "b2", intPtr(1), intPtr(0)),
			{ID: "sf-1", Round: 2, IsFinal: true, FinalType: models.FinalTypeSemifinal,
				TeamA: models.GroupStanding("A", 1), TeamB: models.GroupStanding("B", 2)},
			{ID: "sf-2", Round: 2, IsFinal: true, FinalType: models.FinalTypeSemifinal,
				TeamA: models.GroupStanding("B", 1), TeamB: models.GroupStanding("A", 2)},
			{ID: "third-place", Round: 3, IsFinal: true, FinalType: models.FinalTypeThirdPlace,
				TeamA: models.LoserOf("sf-1"), TeamB: models.LoserOf("sf-2")},
			{ID: "final", Round: 3, IsFinal: true, FinalType: models.FinalTypeFinal,
				TeamA: models.WinnerOf("sf-1"), TeamB: models.WinnerOf("sf-2")},
		},
	}
}

func TestResolvePassGroupIncomplete(t *testing.T) {
	tournament := twoGroupTournament()
	tournament.Matches[0].ScoreA = nil
	tournament.Matches[0].ScoreB = nil

	next, result := ResolvePass(tournament)

	assert.False(t, result.Resolved)
	assert.Zero(t, result.UpdatedCount)
	assert.Equal(t, "group phase not yet complete", result.Message)
	for _, m := range next.Matches {
		if m.IsFinal {
			assert.True(t, m.HasPlaceholder())
		}
	}
}

func TestResolvePassResolvesSemifinals(t *testing.T) {
	next, result := ResolvePass(twoGroupTournament())

	assert.True(t, result.Resolved)
	assert.Equal(t, 2, result.UpdatedCount)
	assert.ElementsMatch(t, []string{"sf-1", "sf-2"}, result.UpdatedMatchIDs)

	sf1 := next.MatchByID("sf-1")
	assert.Equal(t, models.TeamID("a1"), sf1.TeamA)
	assert.Equal(t, models.TeamID("b2"), sf1.TeamB)

	sf2 := next.MatchByID("sf-2")
	assert.Equal(t, models.TeamID("b1"), sf2.TeamA)
	assert.Equal(t, models.TeamID("a2"), sf2.TeamB)

	// Finals still reference the unplayed semifinals.
	assert.True(t, next.MatchByID("final").HasPlaceholder())
	assert.True(t, next.MatchByID("third-place").HasPlaceholder())
}

func TestResolvePassDoesNotMutateInput(t *testing.T) {
	tournament := twoGroupTournament()
	_, _ = ResolvePass(tournament)

	assert.True(t, tournament.MatchByID("sf-1").HasPlaceholder(), "input aggregate must stay untouched")
}

func TestResolvePassCascadesThroughRounds(t *testing.T) {
	// With the semifinal scores already present, one pass fills the
	// semifinals from the tables and the finals from those same semifinals.
	tournament := twoGroupTournament()
	sf1 := tournament.MatchByID("sf-1")
	sf1.ScoreA, sf1.ScoreB = intPtr(3), intPtr(1)
	sf2 := tournament.MatchByID("sf-2")
	sf2.ScoreA, sf2.ScoreB = intPtr(0), intPtr(2)

	next, result := ResolvePass(tournament)

	assert.Equal(t, 4, result.UpdatedCount)

	final := next.MatchByID("final")
	assert.Equal(t, models.TeamID("a1"), final.TeamA)
	assert.Equal(t, models.TeamID("a2"), final.TeamB)

	third := next.MatchByID("third-place")
	assert.Equal(t, models.TeamID("b2"), third.TeamA)
	assert.Equal(t, models.TeamID("b1"), third.TeamB)
}

func TestResolvePassIdempotent(t *testing.T) {
	first, firstResult := ResolvePass(twoGroupTournament())
	assert.True(t, firstResult.Resolved)

	second, secondResult := ResolvePass(first)
	assert.False(t, secondResult.Resolved)
	assert.Zero(t, secondResult.UpdatedCount)
	assert.Equal(t, first.Matches, second.Matches)
}

func TestResolvePassFullyResolvedMessage(t *testing.T) {
	tournament := twoGroupTournament()
	tournament.Matches = tournament.Matches[:2] // group matches only

	_, result := ResolvePass(tournament)
	assert.Equal(t, "bracket already fully resolved", result.Message)
}

func TestResolvePassDrawBlocksWinnerRef(t *testing.T) {
	tournament := twoGroupTournament()
	sf1 := tournament.MatchByID("sf-1")
	sf1.ScoreA, sf1.ScoreB = intPtr(1), intPtr(1)

	next, result := ResolvePass(tournament)

	// Semifinals resolve, sf-2's dependents would too, but sf-1's draw keeps
	// the final and third place partially placeholder.
	assert.True(t, result.Resolved)
	final := next.MatchByID("final")
	assert.Equal(t, models.WinnerOf("sf-1"), final.TeamA)
}

func TestResolvePassCanonicalGroupKeys(t *testing.T) {
	tournament := twoGroupTournament()
	tournament.Matches[0].Group = "Gruppe A"
	tournament.Matches[1].Group = "Group B"

	next, result := ResolvePass(tournament)

	assert.True(t, result.Resolved)
	assert.Equal(t, models.TeamID("a1"), next.MatchByID("sf-1").TeamA)
}

func TestResolveBestSecond(t *testing.T) {
	tournament := &models.Tournament{
		ID: "t2",
		Config: models.TournamentConfig{
			PointSystem:    models.DefaultPointSystem(),
			PlacementLogic: models.DefaultPlacementLogic(),
		},
		Teams: []models.Team{
			{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"},
			{ID: "b1", Name: "B1"}, {ID: "b2", Name: "B2"},
			{ID: "c1", Name: "C1"}, {ID: "c2", Name: "C2"},
		},
		Matches: []models.Match{
			groupMatch("gA-1", "A", "a1", "a2", intPtr(2), intPtr(0)),
			groupMatch("gB-1", "B", "b1", "b2", intPtr(4), intPtr(0)),
			groupMatch("gC-1", "C", "c1", "c2", intPtr(1), intPtr(0)),
			{ID: "sf-1", Round: 2, IsFinal: true, FinalType: models.FinalTypeSemifinal,
				TeamA: models.GroupStanding("A", 1), TeamB: models.BestSecond()},
		},
	}

	next, result := ResolvePass(tournament)

	require.True(t, result.Resolved)
	// First runner-up in group key order.
	assert.Equal(t, models.TeamID("a2"), next.MatchByID("sf-1").TeamB)
}

func TestResolveBestSecondRequiresAllGroups(t *testing.T) {
	tournament := twoGroupTournament()
	tournament.Matches[1].ScoreA = nil
	tournament.Matches[1].ScoreB = nil
	tournament.Matches = append(tournament.Matches, models.Match{
		ID: "extra", Round: 2, IsFinal: true, FinalType: models.FinalTypeSemifinal,
		TeamA: models.BestSecond(), TeamB: models.GroupStanding("A", 1),
	})

	next, result := ResolvePass(tournament)

	// Group A alone resolves its own standing references, never best-second.
	assert.True(t, result.Resolved)
	extra := next.MatchByID("extra")
	assert.Equal(t, models.BestSecond(), extra.TeamA)
	assert.Equal(t, models.TeamID("a1"), extra.TeamB)
}

func TestAutoResolveIfReady(t *testing.T) {
	t.Run("group phase incomplete", func(t *testing.T) {
		tournament := twoGroupTournament()
		tournament.Matches[0].ScoreA = nil
		tournament.Matches[0].ScoreB = nil

		next, result := AutoResolveIfReady(tournament)
		assert.Nil(t, result)
		assert.Same(t, tournament, next)
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		tournament := twoGroupTournament()
		tournament.Matches = tournament.Matches[:2]

		next, result := AutoResolveIfReady(tournament)
		assert.Nil(t, result)
		assert.Same(t, tournament, next)
	})

	t.Run("ready", func(t *testing.T) {
		next, result := AutoResolveIfReady(twoGroupTournament())
		require.NotNil(t, result)
		assert.True(t, result.Resolved)
		assert.False(t, next.MatchByID("sf-1").HasPlaceholder())
	})
}

func TestIsGroupPhaseComplete(t *testing.T) {
	tournament := twoGroupTournament()
	assert.True(t, IsGroupPhaseComplete(tournament))

	tournament.Matches[1].ScoreB = nil
	assert.False(t, IsGroupPhaseComplete(tournament))
}

func TestNeedsResolution(t *testing.T) {
	tournament := twoGroupTournament()
	assert.True(t, NeedsResolution(tournament))

	resolved, _ := ResolvePass(tournament)
	// Finals still depend on unplayed semifinals.
	assert.True(t, NeedsResolution(resolved))

	tournament.Matches = tournament.Matches[:2]
	assert.False(t, NeedsResolution(tournament))
}
