// Package stats models player stat vectors and generates them for new items.
package stats

import "fmt"

// statCount is the number of named components in a Vector.
const statCount = 5

// Stat names a single component of a Vector.
type Stat int

// Stat components in canonical order.
const (
	Speed Stat = iota
	Shooting
	Passing
	Defending
	Goalkeeping
)

var statNames = [statCount]string{"speed", "shooting", "passing", "defending", "goalkeeping"}

func (s Stat) String() string {
	if s < 0 || int(s) >= statCount {
		return "unknown"
	}
	return statNames[s]
}

// Vector is the five-attribute profile of a player. Overall is derived and
// never counted in Sum.
type Vector struct {
	Speed       int `json:"speed" yaml:"speed"`
	Shooting    int `json:"shooting" yaml:"shooting"`
	Passing     int `json:"passing" yaml:"passing"`
	Defending   int `json:"defending" yaml:"defending"`
	Goalkeeping int `json:"goalkeeping" yaml:"goalkeeping"`
	Overall     int `json:"overall" yaml:"overall"`
}

// New builds a vector from its components and derives Overall.
func New(speed, shooting, passing, defending, goalkeeping int) Vector {
	v := Vector{
		Speed:       speed,
		Shooting:    shooting,
		Passing:     passing,
		Defending:   defending,
		Goalkeeping: goalkeeping,
	}
	return v.WithOverall()
}

// Sum adds the five components, excluding Overall.
func (v Vector) Sum() int {
	return v.Speed + v.Shooting + v.Passing + v.Defending + v.Goalkeeping
}

// WithOverall returns v with Overall recomputed as floor(mean).
func (v Vector) WithOverall() Vector {
	v.Overall = floorDiv(v.Sum(), statCount)
	return v
}

// Get returns the component named by s.
func (v Vector) Get(s Stat) int {
	switch s {
	case Speed:
		return v.Speed
	case Shooting:
		return v.Shooting
	case Passing:
		return v.Passing
	case Defending:
		return v.Defending
	case Goalkeeping:
		return v.Goalkeeping
	}
	return 0
}

func (v *Vector) add(s Stat, n int) {
	switch s {
	case Speed:
		v.Speed += n
	case Shooting:
		v.Shooting += n
	case Passing:
		v.Passing += n
	case Defending:
		v.Defending += n
	case Goalkeeping:
		v.Goalkeeping += n
	}
}

// Validate rejects vectors with negative components.
func (v Vector) Validate() error {
	for s := Speed; s <= Goalkeeping; s++ {
		if n := v.Get(s); n < 0 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidStatVector, s, n)
		}
	}
	return nil
}

// Largest returns the stat with the highest value; ties go to the earlier stat.
func (v Vector) Largest() Stat {
	best := Speed
	for s := Shooting; s <= Goalkeeping; s++ {
		if v.Get(s) > v.Get(best) {
			best = s
		}
	}
	return best
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
