package schedule

import (
	"time"

	"github.com/Stieges/hallenfussball-server/models"
)

// Rebuild reconstructs the schedule view from persisted matches. Slots and
// start times are already stamped on the matches; only the phase boundaries
// and totals are derived again.
func Rebuild(cfg models.TournamentConfig, matches []models.Match) *models.Schedule {
	groupSlots, finalsSlots := 0, 0
	for i := range matches {
		m := &matches[i]
		if m.IsFinal {
			if m.Slot+1 > finalsSlots {
				finalsSlots = m.Slot + 1
			}
		} else if m.Slot+1 > groupSlots {
			groupSlots = m.Slot + 1
		}
	}

	groupSlotLen := time.Duration(cfg.GroupPhaseGameDuration+cfg.GroupPhaseBreakDuration) * time.Minute
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
	end := groupEnd

	if finalsSlots > 0 {
		finalsStart := groupEnd.Add(time.Duration(cfg.BreakBetweenPhases) * time.Minute)
		finalsSlotLen := time.Duration(cfg.FinalRoundGameDuration+cfg.FinalRoundBreakDuration) * time.Minute
		finalsEnd := finalsStart.
			Add(time.Duration(finalsSlots-1) * finalsSlotLen).
			Add(time.Duration(cfg.FinalRoundGameDuration) * time.Minute)
		phases = append(phases, models.Phase{
			Name:      "Final Round",
			Kind:      models.PhaseFinals,
			StartTime: finalsStart,
			EndTime:   finalsEnd,
			Slots:     finalsSlots,
		})
		end = finalsEnd
	}

	return &models.Schedule{
		Matches:       matches,
		Phases:        phases,
		TotalDuration: int(end.Sub(cfg.StartTime).Minutes()),
		StartTime:     cfg.StartTime,
		EndTime:       end,
	}
}
