// Package schedule builds the full tournament schedule: round-robin group
// pairings, slot/field assignment under the rest constraint, wall-clock
// stamping and the elimination bracket skeleton. Generation is pure and
// synchronous; it either returns a complete schedule or an error, never a
// partial one.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/Stieges/hallenfussball-server/models"
)

// ErrInvalidConfig covers the generation-time input failures: an empty team
// list or a field count below one.
var ErrInvalidConfig = errors.New("invalid tournament configuration")

// Generate builds the schedule for the given configuration and team list.
func Generate(cfg models.TournamentConfig, teams []models.Team) (*models.Schedule, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: team list is empty", ErrInvalidConfig)
	}
	if cfg.NumberOfFields < 1 {
		return nil, fmt.Errorf("%w: number of fields must be at least 1, got %d", ErrInvalidConfig, cfg.NumberOfFields)
	}

	groups := splitGroups(cfg, teams)

	groupMatches, groupRounds := buildGroupMatches(groups)
	groupSlots := assignSlots(groupMatches, cfg.NumberOfFields, cfg.MinRestSlots)

	groupSlotLen := time.Duration(cfg.GroupPhaseGameDuration+cfg.GroupPhaseBreakDuration) * time.Minute
	for i := range groupMatches {
		groupMatches[i].StartTime = cfg.StartTime.Add(time.Duration(groupMatches[i].Slot) * groupSlotLen)
	}
	groupEnd := cfg.StartTime
	if groupSlots > 0 {
		groupEnd = cfg.StartTime.
			Add(time.Duration(groupSlots-1) * groupSlotLen).
			Add(time.Duration(cfg.GroupPhaseGameDuration) * time.Minute)
	}

	phases := []models.Phase{{
		Name:      "Group Phase",
		Kind:      models.PhaseGroup,
		StartTime: cfg.StartTime,
		EndTime:   groupEnd,
		Slots:     groupSlots,
	}}

	matches := groupMatches
	end := groupEnd

	if cfg.HasFinals() {
		layout := buildFinals(cfg, groups, groupRounds)
		if len(layout.matches) > 0 {
			finalsStart := groupEnd.Add(time.Duration(cfg.BreakBetweenPhases) * time.Minute)
			finalsSlotLen := time.Duration(cfg.FinalRoundGameDuration+cfg.FinalRoundBreakDuration) * time.Minute

			finalsSlots := packFinals(layout.matches, cfg)
			for i := range layout.matches {
				layout.matches[i].StartTime = finalsStart.Add(time.Duration(layout.matches[i].Slot) * finalsSlotLen)
			}
			finalsEnd := finalsStart.
				Add(time.Duration(finalsSlots-1) * finalsSlotLen).
				Add(time.Duration(cfg.FinalRoundGameDuration) * time.Minute)

			phases = append(phases, models.Phase{
				Name:      fmt.Sprintf("Final Round (%s)", layout.preset),
				Kind:      models.PhaseFinals,
				StartTime: finalsStart,
				EndTime:   finalsEnd,
				Slots:     finalsSlots,
			})
			matches = append(matches, layout.matches...)
			end = finalsEnd
		}
	}

	return &models.Schedule{
		Matches:       matches,
		Phases:        phases,
		TotalDuration: int(end.Sub(cfg.StartTime).Minutes()),
		StartTime:     cfg.StartTime,
		EndTime:       end,
	}, nil
}

// buildGroupMatches walks rounds in order and, within a round, groups in
// order, so the later slot assignment is stable by round and original pairing
// order. Returns the matches plus the number of pairing rounds.
func buildGroupMatches(groups []group) ([]models.Match, int) {
	type groupPlan struct {
		key    string
		rounds [][]pairing
		seq    int
	}
	plans := make([]groupPlan, len(groups))
	maxRounds := 0
	for i, g := range groups {
		plans[i] = groupPlan{key: g.Key, rounds: roundRobinRounds(g.Teams)}
		if len(plans[i].rounds) > maxRounds {
			maxRounds = len(plans[i].rounds)
		}
	}

	var matches []models.Match
	for r := 0; r < maxRounds; r++ {
		for i := range plans {
			p := &plans[i]
			if r >= len(p.rounds) {
				continue
			}
			for _, pair := range p.rounds[r] {
				p.seq++
				matches = append(matches, models.Match{
					ID:    fmt.Sprintf("g%s-%d", p.key, p.seq),
					Round: r + 1,
					TeamA: models.TeamID(pair.TeamA),
					TeamB: models.TeamID(pair.TeamB),
					Group: p.key,
					Label: fmt.Sprintf("Group %s", p.key),
				})
			}
		}
	}
	return matches, maxRounds
}

// assignSlots distributes the ordered match list across fields and time
// slots. A team may not play again until more than minRestSlots slots have
// passed since its previous match; a match that cannot be placed in a slot
// spills into a later one instead of failing, so no match is ever dropped.
// Returns the number of slots used.
func assignSlots(matches []models.Match, fields, minRestSlots int) int {
	fieldsUsed := make(map[int]int)
	lastSlot := make(map[string]int)

	rested := func(team string, slot int) bool {
		last, played := lastSlot[team]
		return !played || slot-last > minRestSlots
	}

	maxSlot := -1
	for i := range matches {
		m := &matches[i]
		slot := 0
		for {
			if fieldsUsed[slot] < fields && rested(m.TeamA.TeamID, slot) && rested(m.TeamB.TeamID, slot) {
				break
			}
			slot++
		}
		m.Slot = slot
		m.Field = fieldsUsed[slot] + 1
		fieldsUsed[slot]++
		lastSlot[m.TeamA.TeamID] = slot
		lastSlot[m.TeamB.TeamID] = slot
		if slot > maxSlot {
			maxSlot = slot
		}
	}
	return maxSlot + 1
}

// packFinals assigns bracket matches to slots of the finals phase. Matches of
// the same bracket round share slots across fields only when the round's
// parallel flag is set; pairing logic is never affected. Returns the slot
// count.
func packFinals(matches []models.Match, cfg models.TournamentConfig) int {
	slot := 0
	i := 0
	for i < len(matches) {
		j := i
		for j < len(matches) && matches[j].FinalType == matches[i].FinalType {
			j++
		}

		parallel := cfg.Finals.ParallelRounds[matches[i].FinalType] && cfg.NumberOfFields > 1
		field := 0
		for k := i; k < j; k++ {
			if parallel && field >= cfg.NumberOfFields {
				field = 0
				slot++
			}
			matches[k].Slot = slot
			matches[k].Field = field + 1
			if parallel {
				field++
			} else {
				slot++
			}
		}
		if parallel {
			slot++
		}
		i = j
	}
	return slot
}
