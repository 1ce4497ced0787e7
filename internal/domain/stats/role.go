package stats

import "strings"

// Role is a player's position. RoleNone marks an unknown or missing position.
type Role string

// Known roles.
const (
	RoleNone       Role = ""
	RoleGoalkeeper Role = "goalkeeper"
	RoleDefender   Role = "defender"
	RoleMidfielder Role = "midfielder"
	RoleForward    Role = "forward"
)

// profile is a per-role allocation: whole percentages per stat (summing to
// 100) and the stat that absorbs the rounding remainder.
type profile struct {
	pct     [statCount]int
	primary Stat
}

// Percentages in Stat order: speed, shooting, passing, defending, goalkeeping.
var profiles = map[Role]profile{
	RoleGoalkeeper: {pct: [statCount]int{10, 5, 15, 20, 50}, primary: Goalkeeping},
	RoleDefender:   {pct: [statCount]int{20, 10, 15, 45, 10}, primary: Defending},
	RoleMidfielder: {pct: [statCount]int{20, 20, 35, 15, 10}, primary: Passing},
	RoleForward:    {pct: [statCount]int{25, 40, 20, 10, 5}, primary: Shooting},
}

// ParseRole maps free text (including common abbreviations) onto a Role.
// Anything unrecognised becomes RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goalkeeper", "gk", "keeper", "portero":
		return RoleGoalkeeper
	case "defender", "def", "df", "defensa":
		return RoleDefender
	case "midfielder", "mid", "mf", "centrocampista":
		return RoleMidfielder
	case "forward", "fw", "striker", "st", "delantero":
		return RoleForward
	}
	return RoleNone
}

// Known reports whether r has an allocation profile.
func (r Role) Known() bool {
	_, ok := profiles[r]
	return ok
}

// Primary returns the stat that r favours. ok is false for unknown roles.
func (r Role) Primary() (Stat, bool) {
	p, ok := profiles[r]
	return p.primary, ok
}
