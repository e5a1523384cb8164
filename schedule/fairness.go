package schedule

import (
	"fmt"
	"sort"

	"github.com/Stieges/hallenfussball-server/models"
)

// CheckFairness inspects a generated schedule for soft issues: back-to-back
// matches, uneven match counts and uneven field usage. Warnings are
// informational only; they never block generation or resolution.
func CheckFairness(s *models.Schedule) []string {
	var warnings []string

	teamSlots := make(map[string][]int)
	fieldLoad := make(map[int]int)
	for i := range s.Matches {
		m := &s.Matches[i]
		if m.IsFinal {
			continue
		}
		teamSlots[m.TeamA.TeamID] = append(teamSlots[m.TeamA.TeamID], m.Slot)
		teamSlots[m.TeamB.TeamID] = append(teamSlots[m.TeamB.TeamID], m.Slot)
		fieldLoad[m.Field]++
	}

	teams := make([]string, 0, len(teamSlots))
	for team := range teamSlots {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	for _, team := range teams {
		slots := teamSlots[team]
		sort.Ints(slots)
		for i := 1; i < len(slots); i++ {
			if slots[i]-slots[i-1] == 1 {
				warnings = append(warnings, fmt.Sprintf(
					"%s plays back-to-back matches in slots %d and %d", team, slots[i-1], slots[i]))
			}
		}
	}

	minMatches, maxMatches := -1, -1
	for _, team := range teams {
		n := len(teamSlots[team])
		if minMatches == -1 || n < minMatches {
			minMatches = n
		}
		if n > maxMatches {
			maxMatches = n
		}
	}
	if maxMatches-minMatches > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"uneven match distribution: between %d and %d group matches per team", minMatches, maxMatches))
	}

	minLoad, maxLoad := -1, -1
	for _, n := range fieldLoad {
		if minLoad == -1 || n < minLoad {
			minLoad = n
		}
		if n > maxLoad {
			maxLoad = n
		}
	}
	if len(fieldLoad) > 1 && maxLoad-minLoad > 2 {
		warnings = append(warnings, fmt.Sprintf(
			"uneven field usage: between %d and %d matches per field", minLoad, maxLoad))
	}

	return warnings
}
