// Package standings computes ranked group tables from completed matches.
// Calculation is pure: it never touches the aggregate and is recomputed on
// demand by services and by the bracket resolver.
package standings

import (
	"sort"
	"strings"

	"github.com/Stieges/hallenfussball-server/models"
)

// Calculate ranks teams from the given matches, best first. Bracket matches
// never contribute. If groupFilter is non-empty only matches of that group
// (canonical key comparison) are counted and only teams of that group are
// returned. A match contributes only once both scores are present.
//
// Ordering follows the enabled subset of cfg.PlacementLogic in configured
// order; teams still tied after the whole chain keep team-list order.
func Calculate(teams []models.Team, matches []models.Match, cfg models.TournamentConfig, groupFilter string) []models.Standing {
	filter := ""
	if groupFilter != "" {
		filter = models.CanonicalGroupKey(groupFilter)
	}

	rows := make([]*models.Standing, 0, len(teams))
	byID := make(map[string]*models.Standing, len(teams))
	byName := make(map[string]*models.Standing, len(teams))
	for _, team := range teams {
		row := &models.Standing{TeamID: team.ID, TeamName: team.Name, Group: team.Group}
		rows = append(rows, row)
		byID[team.ID] = row
		byName[strings.TrimSpace(team.Name)] = row
	}

	// resolve accepts both representations found in imported data: the
	// stable team id and the display name.
	resolve := func(ref models.TeamRef) *models.Standing {
		if ref.Placeholder() {
			return nil
		}
		if row, ok := byID[ref.TeamID]; ok {
			return row
		}
		return byName[strings.TrimSpace(ref.TeamID)]
	}

	// A team belongs to the filtered group when its own label says so or when
	// it appears in one of the group's matches; generated schedules carry the
	// group key on matches, imported team lists sometimes only on teams.
	inGroup := make(map[*models.Standing]bool)
	counted := make([]models.Match, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		if m.IsFinal {
			continue
		}
		if filter != "" && models.CanonicalGroupKey(m.Group) != filter {
			continue
		}
		rowA := resolve(m.TeamA)
		rowB := resolve(m.TeamB)
		if filter != "" {
			if rowA != nil {
				inGroup[rowA] = true
			}
			if rowB != nil {
				inGroup[rowB] = true
			}
		}
		if !m.Complete() || rowA == nil || rowB == nil {
			continue
		}
		tally(rowA, *m.ScoreA, *m.ScoreB, cfg.PointSystem)
		tally(rowB, *m.ScoreB, *m.ScoreA, cfg.PointSystem)

		// Keep a normalized copy for head-to-head lookups so name-based
		// references compare equal to id-based ones.
		normalized := *m
		normalized.TeamA = models.TeamID(rowA.TeamID)
		normalized.TeamB = models.TeamID(rowB.TeamID)
		counted = append(counted, normalized)
	}

	if filter != "" {
		kept := rows[:0]
		for _, row := range rows {
			if inGroup[row] || models.CanonicalGroupKey(row.Group) == filter {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	rank(rows, enabledCriteria(cfg.PlacementLogic), counted, cfg.PointSystem)

	out := make([]models.Standing, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out
}

func tally(row *models.Standing, scored, conceded int, ps models.PointSystem) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	switch {
	case scored > conceded:
		row.Won++
		row.Points += ps.Win
	case scored < conceded:
		row.Lost++
		row.Points += ps.Loss
	default:
		row.Drawn++
		row.Points += ps.Draw
	}
}

func enabledCriteria(logic []models.PlacementCriterion) []models.CriterionKind {
	kinds := make([]models.CriterionKind, 0, len(logic))
	for _, c := range logic {
		if c.Enabled {
			kinds = append(kinds, c.Kind)
		}
	}
	return kinds
}

// rank orders rows in place by applying the criteria chain: each criterion
// splits the current tie group into tiers, remaining criteria recurse into
// tiers that are still tied. Sorting is stable throughout, so exhausted
// criteria preserve insertion order.
func rank(rows []*models.Standing, criteria []models.CriterionKind, matches []models.Match, ps models.PointSystem) {
	if len(rows) <= 1 || len(criteria) == 0 {
		return
	}
	kind, rest := criteria[0], criteria[1:]

	if kind == models.CriterionDirectComparison {
		// Only defined for an exactly-two tie; anything else falls through.
		if len(rows) == 2 {
			a, b := headToHeadPoints(rows[0].TeamID, rows[1].TeamID, matches, ps)
			if b > a {
				rows[0], rows[1] = rows[1], rows[0]
				return
			}
			if a > b {
				return
			}
		}
		rank(rows, rest, matches, ps)
		return
	}

	value := criterionValue(kind)
	sort.SliceStable(rows, func(i, j int) bool {
		return value(rows[i]) > value(rows[j])
	})
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) && value(rows[end]) == value(rows[start]) {
			end++
		}
		if end-start > 1 {
			rank(rows[start:end], rest, matches, ps)
		}
		start = end
	}
}

func criterionValue(kind models.CriterionKind) func(*models.Standing) float64 {
	switch kind {
	case models.CriterionGoalDifference:
		return func(s *models.Standing) float64 { return float64(s.GoalDifference) }
	case models.CriterionGoalsFor:
		return func(s *models.Standing) float64 { return float64(s.GoalsFor) }
	default:
		return func(s *models.Standing) float64 { return s.Points }
	}
}

// headToHeadPoints scores the direct meetings of two teams with the active
// point system. Zero on both sides when the teams never met.
func headToHeadPoints(teamA, teamB string, matches []models.Match, ps models.PointSystem) (float64, float64) {
	var a, b float64
	for i := range matches {
		m := &matches[i]
		idA, idB := m.TeamA.TeamID, m.TeamB.TeamID
		var scoreA, scoreB int
		switch {
		case idA == teamA && idB == teamB:
			scoreA, scoreB = *m.ScoreA, *m.ScoreB
		case idA == teamB && idB == teamA:
			scoreA, scoreB = *m.ScoreB, *m.ScoreA
		default:
			continue
		}
		switch {
		case scoreA > scoreB:
			a += ps.Win
			b += ps.Loss
		case scoreA < scoreB:
			a += ps.Loss
			b += ps.Win
		default:
			a += ps.Draw
			b += ps.Draw
		}
	}
	return a, b
}
