package schedule

import (
	"fmt"
	"sort"

	"github.com/Stieges/hallenfussball-server/models"
)

// finalsLayout is the bracket skeleton: placeholder matches in bracket-round
// order plus the preset that was actually built after any downgrade.
type finalsLayout struct {
	preset  models.FinalsPreset
	matches []models.Match
}

// buildFinals emits the placeholder bracket for the configured preset. A
// preset the group stage cannot feed (too few groups or groups too small for
// the first knockout round) downgrades one step at a time (top16 to top8 to
// top4) rather than emitting unresolvable references. The effective preset
// is reported in the layout and surfaces in the finals phase label.
func buildFinals(cfg models.TournamentConfig, groups []group, groupRounds int) finalsLayout {
	b := &finalsBuilder{groups: groups, round: groupRounds}

	preset := effectivePreset(cfg.Finals.Preset, groups)
	thirdPlace := cfg.Finals.ThirdPlaceMatch || cfg.Finals.Preset == models.FinalsPresetAllPlaces

	switch preset {
	case models.FinalsPresetFinalOnly:
		b.finalOnly()
	case models.FinalsPresetTop4:
		b.top4(thirdPlace, nil)
	case models.FinalsPresetTop8:
		b.top8(thirdPlace, false)
	case models.FinalsPresetTop16:
		b.top16(thirdPlace)
	case models.FinalsPresetAllPlaces:
		b.allPlaces(groups)
	}

	// Placement matches are emitted after the final they share a round with;
	// order them for play: lower placements first, the final last.
	sort.SliceStable(b.matches, func(i, j int) bool {
		if b.matches[i].Round != b.matches[j].Round {
			return b.matches[i].Round < b.matches[j].Round
		}
		return finalTypeOrder(b.matches[i].FinalType) < finalTypeOrder(b.matches[j].FinalType)
	})

	return finalsLayout{preset: preset, matches: b.matches}
}

func finalTypeOrder(ft models.FinalType) int {
	switch ft {
	case models.FinalTypeRoundOf16:
		return 0
	case models.FinalTypeQuarterfinal:
		return 1
	case models.FinalTypeSemifinal:
		return 2
	case models.FinalTypeSeventhEighth:
		return 3
	case models.FinalTypeFifthSixth:
		return 4
	case models.FinalTypeThirdPlace:
		return 5
	default:
		return 6
	}
}

// effectivePreset applies the downgrade policy. allPlaces keeps its identity;
// its internal bracket shape adapts separately.
func effectivePreset(preset models.FinalsPreset, groups []group) models.FinalsPreset {
	switch preset {
	case models.FinalsPresetTop16:
		if !supportsTop16(groups) {
			return effectivePreset(models.FinalsPresetTop8, groups)
		}
	case models.FinalsPresetTop8:
		if !supportsTop8(groups) {
			return effectivePreset(models.FinalsPresetTop4, groups)
		}
	case models.FinalsPresetTop4:
		if !supportsTop4(groups) {
			return models.FinalsPresetFinalOnly
		}
	}
	return preset
}

func minGroupSize(groups []group) int {
	min := 0
	for i, g := range groups {
		if i == 0 || len(g.Teams) < min {
			min = len(g.Teams)
		}
	}
	return min
}

func supportsTop16(groups []group) bool {
	g, size := len(groups), minGroupSize(groups)
	return (g == 8 && size >= 2) || (g == 4 && size >= 4)
}

func supportsTop8(groups []group) bool {
	g, size := len(groups), minGroupSize(groups)
	return (g == 4 && size >= 2) || (g == 2 && size >= 4)
}

func supportsTop4(groups []group) bool {
	g, size := len(groups), minGroupSize(groups)
	return g >= 2 || (g == 1 && size >= 4)
}

type finalsBuilder struct {
	groups  []group
	round   int
	matches []models.Match
}

func (b *finalsBuilder) add(ft models.FinalType, id, label string, teamA, teamB models.TeamRef) {
	b.matches = append(b.matches, models.Match{
		ID:        id,
		Round:     b.round,
		TeamA:     teamA,
		TeamB:     teamB,
		IsFinal:   true,
		FinalType: ft,
		Label:     label,
	})
}

// gs references a group standing by group index and 1-based position.
func (b *finalsBuilder) gs(groupIdx, position int) models.TeamRef {
	return models.GroupStanding(b.groups[groupIdx].Key, position)
}

func (b *finalsBuilder) finalOnly() {
	b.round++
	switch {
	case len(b.groups) >= 2:
		b.add(models.FinalTypeFinal, "final", "Final", b.gs(0, 1), b.gs(1, 1))
	case len(b.groups[0].Teams) >= 2:
		b.add(models.FinalTypeFinal, "final", "Final", b.gs(0, 1), b.gs(0, 2))
	}
}

// top4 emits the semifinals and the finals layer. When sources is non-nil it
// carries the four quarterfinal ids feeding the semifinals; otherwise the
// semifinals are seeded from group standings with the cross-bracket pairing
// for two groups and the best-second variant for three.
func (b *finalsBuilder) top4(thirdPlace bool, sources []string) {
	b.round++
	switch {
	case sources != nil:
		b.add(models.FinalTypeSemifinal, "sf-1", "Semifinal 1", models.WinnerOf(sources[0]), models.WinnerOf(sources[1]))
		b.add(models.FinalTypeSemifinal, "sf-2", "Semifinal 2", models.WinnerOf(sources[2]), models.WinnerOf(sources[3]))
	case len(b.groups) == 1:
		b.add(models.FinalTypeSemifinal, "sf-1", "Semifinal 1", b.gs(0, 1), b.gs(0, 4))
		b.add(models.FinalTypeSemifinal, "sf-2", "Semifinal 2", b.gs(0, 2), b.gs(0, 3))
	case len(b.groups) == 2:
		b.add(models.FinalTypeSemifinal, "sf-1", "Semifinal 1", b.gs(0, 1), b.gs(1, 2))
		b.add(models.FinalTypeSemifinal, "sf-2", "Semifinal 2", b.gs(1, 1), b.gs(0, 2))
	case len(b.groups) == 3:
		b.add(models.FinalTypeSemifinal, "sf-1", "Semifinal 1", b.gs(0, 1), models.BestSecond())
		b.add(models.FinalTypeSemifinal, "sf-2", "Semifinal 2", b.gs(1, 1), b.gs(2, 1))
	default:
		b.add(models.FinalTypeSemifinal, "sf-1", "Semifinal 1", b.gs(0, 1), b.gs(3, 1))
		b.add(models.FinalTypeSemifinal, "sf-2", "Semifinal 2", b.gs(1, 1), b.gs(2, 1))
	}

	b.round++
	if thirdPlace {
		b.add(models.FinalTypeThirdPlace, "third-place", "Match for 3rd Place", models.LoserOf("sf-1"), models.LoserOf("sf-2"))
	}
	b.add(models.FinalTypeFinal, "final", "Final", models.WinnerOf("sf-1"), models.WinnerOf("sf-2"))
}

// top8 adds a quarterfinal layer feeding top4. With two groups the top four
// of each group qualify, with four groups the top two.
func (b *finalsBuilder) top8(thirdPlace, allPlaces bool) {
	b.round++
	if len(b.groups) == 2 {
		b.addQF(1, b.gs(0, 1), b.gs(1, 4))
		b.addQF(2, b.gs(1, 2), b.gs(0, 3))
		b.addQF(3, b.gs(1, 1), b.gs(0, 4))
		b.addQF(4, b.gs(0, 2), b.gs(1, 3))
	} else {
		b.addQF(1, b.gs(0, 1), b.gs(1, 2))
		b.addQF(2, b.gs(2, 1), b.gs(3, 2))
		b.addQF(3, b.gs(1, 1), b.gs(0, 2))
		b.addQF(4, b.gs(3, 1), b.gs(2, 2))
	}

	b.top4(thirdPlace, []string{"qf-1", "qf-2", "qf-3", "qf-4"})

	if allPlaces {
		b.add(models.FinalTypeFifthSixth, "place-5-6", "Match for 5th/6th Place", models.LoserOf("qf-1"), models.LoserOf("qf-2"))
		b.add(models.FinalTypeSeventhEighth, "place-7-8", "Match for 7th/8th Place", models.LoserOf("qf-3"), models.LoserOf("qf-4"))
	}
}

func (b *finalsBuilder) addQF(n int, teamA, teamB models.TeamRef) {
	b.add(models.FinalTypeQuarterfinal, fmt.Sprintf("qf-%d", n), fmt.Sprintf("Quarterfinal %d", n), teamA, teamB)
}

// top16 adds a round of 16 feeding top8. Supported for four groups of at
// least four or eight groups of at least two.
func (b *finalsBuilder) top16(thirdPlace bool) {
	b.round++
	if len(b.groups) == 4 {
		b.addR16(1, b.gs(0, 1), b.gs(2, 4))
		b.addR16(2, b.gs(1, 2), b.gs(3, 3))
		b.addR16(3, b.gs(2, 1), b.gs(0, 4))
		b.addR16(4, b.gs(3, 2), b.gs(1, 3))
		b.addR16(5, b.gs(1, 1), b.gs(3, 4))
		b.addR16(6, b.gs(0, 2), b.gs(2, 3))
		b.addR16(7, b.gs(3, 1), b.gs(1, 4))
		b.addR16(8, b.gs(2, 2), b.gs(0, 3))
	} else {
		for i := 0; i < 4; i++ {
			b.addR16(i+1, b.gs(2*i, 1), b.gs(2*i+1, 2))
		}
		for i := 0; i < 4; i++ {
			b.addR16(i+5, b.gs(2*i+1, 1), b.gs(2*i, 2))
		}
	}

	b.round++
	for i := 0; i < 4; i++ {
		b.addQF(i+1, models.WinnerOf(fmt.Sprintf("r16-%d", 2*i+1)), models.WinnerOf(fmt.Sprintf("r16-%d", 2*i+2)))
	}

	b.top4(thirdPlace, []string{"qf-1", "qf-2", "qf-3", "qf-4"})
}

func (b *finalsBuilder) addR16(n int, teamA, teamB models.TeamRef) {
	b.add(models.FinalTypeRoundOf16, fmt.Sprintf("r16-%d", n), fmt.Sprintf("Round of 16 Match %d", n), teamA, teamB)
}

// allPlaces plays out every reachable placement. When the group stage can
// feed a quarterfinal layer the 5th-8th places come from its losers; with a
// semifinal-only bracket and exactly two groups they come from the 3rd and
// 4th group finishers directly. A placement match whose finisher cannot exist
// (group too small) is omitted instead of being emitted unresolvable.
func (b *finalsBuilder) allPlaces(groups []group) {
	switch {
	case supportsTop8(groups):
		b.top8(true, true)
	case supportsTop4(groups):
		b.top4(true, nil)
		if len(groups) == 2 {
			sizeA, sizeB := len(groups[0].Teams), len(groups[1].Teams)
			if sizeA >= 3 && sizeB >= 3 {
				b.add(models.FinalTypeFifthSixth, "place-5-6", "Match for 5th/6th Place", b.gs(0, 3), b.gs(1, 3))
			}
			if sizeA >= 4 && sizeB >= 4 {
				b.add(models.FinalTypeSeventhEighth, "place-7-8", "Match for 7th/8th Place", b.gs(0, 4), b.gs(1, 4))
			}
		}
	default:
		b.finalOnly()
	}
}
