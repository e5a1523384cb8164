package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RefKind discriminates the possible states of a match's team slot.
type RefKind string

const (
	RefTeam          RefKind = "team"
	RefGroupStanding RefKind = "groupStanding"
	RefBestSecond    RefKind = "bestSecond"
	RefWinnerOf      RefKind = "winnerOf"
	RefLoserOf       RefKind = "loserOf"
	RefUnknown       RefKind = "unknown"
)

// TeamRef is either a concrete team reference or a symbolic placeholder that
// the bracket resolver replaces once the prerequisite results exist.
// On the wire it is a single string; parsing happens once, here, so the rest
// of the code never scans placeholder strings.
type TeamRef struct {
	Kind     RefKind `json:"-"`
	TeamID   string  `json:"-"` // RefTeam: team id (or imported display name)
	GroupKey string  `json:"-"` // RefGroupStanding: canonical group key
	Position int     `json:"-"` // RefGroupStanding: 1-based standing position
	MatchID  string  `json:"-"` // RefWinnerOf / RefLoserOf
}

const unknownToken = "TBD"

func TeamID(id string) TeamRef { return TeamRef{Kind: RefTeam, TeamID: id} }

func GroupStanding(groupKey string, position int) TeamRef {
	return TeamRef{Kind: RefGroupStanding, GroupKey: CanonicalGroupKey(groupKey), Position: position}
}

func BestSecond() TeamRef { return TeamRef{Kind: RefBestSecond} }

func WinnerOf(matchID string) TeamRef { return TeamRef{Kind: RefWinnerOf, MatchID: matchID} }

func LoserOf(matchID string) TeamRef { return TeamRef{Kind: RefLoserOf, MatchID: matchID} }

func Unknown() TeamRef { return TeamRef{Kind: RefUnknown} }

// Resolved reports whether the slot holds a concrete team.
func (r TeamRef) Resolved() bool { return r.Kind == RefTeam }

// Placeholder reports whether the slot still needs resolution.
func (r TeamRef) Placeholder() bool { return !r.Resolved() }

// String encodes the reference in its canonical wire form. The encoding
// round-trips exactly through ParseTeamRef.
func (r TeamRef) String() string {
	switch r.Kind {
	case RefTeam:
		return r.TeamID
	case RefGroupStanding:
		return fmt.Sprintf("group:%s:%d", r.GroupKey, r.Position)
	case RefBestSecond:
		return "best-second"
	case RefWinnerOf:
		return "winner-of:" + r.MatchID
	case RefLoserOf:
		return "loser-of:" + r.MatchID
	default:
		return unknownToken
	}
}

// Label returns a short human-readable description for schedule display.
func (r TeamRef) Label() string {
	switch r.Kind {
	case RefTeam:
		return r.TeamID
	case RefGroupStanding:
		return fmt.Sprintf("%s. of group %s", ordinal(r.Position), r.GroupKey)
	case RefBestSecond:
		return "best second"
	case RefWinnerOf:
		return "winner of " + r.MatchID
	case RefLoserOf:
		return "loser of " + r.MatchID
	default:
		return unknownToken
	}
}

func ordinal(n int) string { return strconv.Itoa(n) }

// ParseTeamRef decodes a wire-form team reference. Anything that is not a
// recognized placeholder token is treated as a concrete team reference; id vs
// display name disambiguation is left to the standings calculator.
func ParseTeamRef(s string) TeamRef {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == unknownToken:
		return Unknown()
	case s == "best-second":
		return BestSecond()
	case strings.HasPrefix(s, "winner-of:"):
		return WinnerOf(strings.TrimPrefix(s, "winner-of:"))
	case strings.HasPrefix(s, "loser-of:"):
		return LoserOf(strings.TrimPrefix(s, "loser-of:"))
	case strings.HasPrefix(s, "group:"):
		parts := strings.Split(s, ":")
		if len(parts) == 3 {
			pos, err := strconv.Atoi(parts[2])
			if err == nil && pos > 0 {
				return GroupStanding(parts[1], pos)
			}
		}
		return Unknown()
	default:
		return TeamID(s)
	}
}

func (r TeamRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *TeamRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseTeamRef(s)
	return nil
}

// CanonicalGroupKey normalizes the two group label conventions found in
// imported data ("A" and "Gruppe A" / "Group A") to a single key form.
func CanonicalGroupKey(key string) string {
	k := strings.TrimSpace(key)
	lower := strings.ToLower(k)
	for _, prefix := range []string{"gruppe ", "group "} {
		if strings.HasPrefix(lower, prefix) {
			k = strings.TrimSpace(k[len(prefix):])
			break
		}
	}
	return strings.ToUpper(k)
}
