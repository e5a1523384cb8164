package schedule

import (
	"sort"

	"github.com/Stieges/hallenfussball-server/models"
)

// group is one round-robin pool: a canonical key plus the member team ids in
// seeding order.
type group struct {
	Key   string
	Teams []string
}

type pairing struct {
	TeamA string
	TeamB string
}

var groupLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P"}

// splitGroups assigns teams to round-robin pools. Teams carrying a group
// label are pooled by canonical key; unlabeled team lists are dealt into
// cfg.NumberOfGroups pools in input order. A single round-robin tournament is
// one pool regardless of labels.
func splitGroups(cfg models.TournamentConfig, teams []models.Team) []group {
	if cfg.GroupSystem == models.GroupSystemRoundRobin {
		ids := make([]string, len(teams))
		for i, t := range teams {
			ids[i] = t.ID
		}
		return []group{{Key: groupLetters[0], Teams: ids}}
	}

	labeled := false
	for _, t := range teams {
		if t.Group != "" {
			labeled = true
			break
		}
	}

	if labeled {
		byKey := make(map[string][]string)
		for _, t := range teams {
			key := models.CanonicalGroupKey(t.Group)
			byKey[key] = append(byKey[key], t.ID)
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		groups := make([]group, len(keys))
		for i, k := range keys {
			groups[i] = group{Key: k, Teams: byKey[k]}
		}
		return groups
	}

	n := cfg.NumberOfGroups
	if n < 1 {
		n = 1
	}
	if n > len(groupLetters) {
		n = len(groupLetters)
	}
	groups := make([]group, n)
	for i := range groups {
		groups[i].Key = groupLetters[i]
	}
	for i, t := range teams {
		g := i % n
		groups[g].Teams = append(groups[g].Teams, t.ID)
	}
	return groups
}

// roundRobinRounds produces the circle-method pairing rounds for one pool:
// n-1 rounds (n for even counts after the dummy is added), no team twice in
// a round, one bye per round for odd n. Total pairings are n*(n-1)/2.
func roundRobinRounds(teams []string) [][]pairing {
	n := len(teams)
	if n < 2 {
		return nil
	}

	ring := append([]string(nil), teams...)
	// Odd pool size: a dummy opponent marks the bye, no match is emitted.
	if n%2 != 0 {
		ring = append(ring, "")
		n++
	}

	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		var round []pairing
		for i := 0; i < n/2; i++ {
			a, b := ring[i], ring[n-1-i]
			if a == "" || b == "" {
				continue
			}
			round = append(round, pairing{TeamA: a, TeamB: b})
		}
		rounds = append(rounds, round)

		// Rotate all positions but the first.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}
