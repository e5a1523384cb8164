// Package brackets resolves symbolic team references in elimination-bracket
// matches and pushes live bracket updates to subscribed clients.
package brackets

import (
	"fmt"
	"sort"

	"github.com/Stieges/hallenfussball-server/models"
	"github.com/Stieges/hallenfussball-server/standings"
)

// Result reports the outcome of a resolution pass. Resolved is false both
// when nothing could be resolved yet and when nothing needed resolving;
// callers that care about the reason check NeedsResolution and
// IsGroupPhaseComplete. Message is display-ready status text.
type Result struct {
	Resolved        bool     `json:"resolved"`
	UpdatedCount    int      `json:"updatedCount"`
	UpdatedMatchIDs []string `json:"updatedMatchIds"`
	Message         string   `json:"message"`
}

// IsGroupPhaseComplete reports whether every group-stage match has both
// scores entered.
func IsGroupPhaseComplete(t *models.Tournament) bool {
	for i := range t.Matches {
		m := &t.Matches[i]
		if !m.IsFinal && !m.Complete() {
			return false
		}
	}
	return true
}

// NeedsResolution reports whether any bracket match still holds a
// placeholder.
func NeedsResolution(t *models.Tournament) bool {
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.IsFinal && m.HasPlaceholder() {
			return true
		}
	}
	return false
}

// ResolvePass runs one resolution pass over the bracket and returns a new
// aggregate; the input is never mutated. Bracket matches are processed in
// round order, so a reference whose prerequisite resolves earlier in the same
// pass is picked up immediately, so one call resolves every layer the current
// scores allow. Unresolvable tokens are left untouched; that is normal
// steady-state during a running tournament, not an error. The pass is
// idempotent and a placeholder, once replaced, never reverts.
func ResolvePass(t *models.Tournament) (*models.Tournament, Result) {
	next := t.Clone()
	r := newResolution(next)

	order := make([]*models.Match, 0)
	for i := range next.Matches {
		if next.Matches[i].IsFinal {
			order = append(order, &next.Matches[i])
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].Round < order[j].Round })

	var updated []string
	for _, m := range order {
		changed := false
		if m.TeamA.Placeholder() {
			if id, ok := r.resolve(m.TeamA); ok {
				m.TeamA = models.TeamID(id)
				changed = true
			}
		}
		if m.TeamB.Placeholder() {
			if id, ok := r.resolve(m.TeamB); ok {
				m.TeamB = models.TeamID(id)
				changed = true
			}
		}
		if changed {
			updated = append(updated, m.ID)
		}
	}

	result := Result{
		Resolved:        len(updated) > 0,
		UpdatedCount:    len(updated),
		UpdatedMatchIDs: updated,
	}
	switch {
	case len(updated) > 0:
		result.Message = fmt.Sprintf("%d bracket matches resolved", len(updated))
	case !NeedsResolution(next):
		result.Message = "bracket already fully resolved"
	case !IsGroupPhaseComplete(next):
		result.Message = "group phase not yet complete"
	default:
		result.Message = "no bracket matches could be resolved yet"
	}
	return next, result
}

// AutoResolveIfReady runs a pass only when the group phase is complete and
// the bracket still holds placeholders. Otherwise it returns the aggregate
// unchanged and a nil result.
func AutoResolveIfReady(t *models.Tournament) (*models.Tournament, *Result) {
	if !IsGroupPhaseComplete(t) || !NeedsResolution(t) {
		return t, nil
	}
	next, result := ResolvePass(t)
	return next, &result
}

// resolution caches group completeness and standings for one pass.
type resolution struct {
	t              *models.Tournament
	groupComplete  map[string]bool
	groupStandings map[string][]models.Standing
}

func newResolution(t *models.Tournament) *resolution {
	return &resolution{
		t:              t,
		groupComplete:  make(map[string]bool),
		groupStandings: make(map[string][]models.Standing),
	}
}

func (r *resolution) resolve(ref models.TeamRef) (string, bool) {
	switch ref.Kind {
	case models.RefGroupStanding:
		return r.resolveGroupStanding(ref.GroupKey, ref.Position)
	case models.RefBestSecond:
		return r.resolveBestSecond()
	case models.RefWinnerOf:
		if m := r.t.MatchByID(ref.MatchID); m != nil {
			return m.WinnerTeamID()
		}
		return "", false
	case models.RefLoserOf:
		if m := r.t.MatchByID(ref.MatchID); m != nil {
			return m.LoserTeamID()
		}
		return "", false
	default:
		// RefUnknown ("TBD") is never resolvable on its own.
		return "", false
	}
}

// resolveGroupStanding requires the whole group to be complete and its table
// to have at least position entries.
func (r *resolution) resolveGroupStanding(key string, position int) (string, bool) {
	if !r.isGroupComplete(key) {
		return "", false
	}
	table := r.standingsFor(key)
	if position < 1 || position > len(table) {
		return "", false
	}
	return table[position-1].TeamID, true
}

// resolveBestSecond requires every group to be complete and then picks the
// first second-place team in canonical group-key order. It deliberately does
// not compare runners-up across groups by points or goal difference; that
// matches the established behavior tournaments have been run with.
func (r *resolution) resolveBestSecond() (string, bool) {
	keys := r.t.GroupKeys()
	if len(keys) == 0 {
		return "", false
	}
	for _, key := range keys {
		if !r.isGroupComplete(key) {
			return "", false
		}
	}
	for _, key := range keys {
		table := r.standingsFor(key)
		if len(table) >= 2 {
			return table[1].TeamID, true
		}
	}
	return "", false
}

// isGroupComplete reports whether every group-stage match tagged with the
// given canonical key has both scores. Unknown keys are never complete.
func (r *resolution) isGroupComplete(key string) bool {
	if done, ok := r.groupComplete[key]; ok {
		return done
	}
	found := false
	done := true
	for i := range r.t.Matches {
		m := &r.t.Matches[i]
		if m.IsFinal || models.CanonicalGroupKey(m.Group) != key {
			continue
		}
		found = true
		if !m.Complete() {
			done = false
			break
		}
	}
	done = found && done
	r.groupComplete[key] = done
	return done
}

func (r *resolution) standingsFor(key string) []models.Standing {
	if table, ok := r.groupStandings[key]; ok {
		return table
	}
	table := standings.Calculate(r.t.Teams, r.t.Matches, r.t.Config, key)
	r.groupStandings[key] = table
	return table
}
