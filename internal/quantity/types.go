package quantity

import "maps"

const (
	// DefaultItemCount is the number of items generated at startup.
	DefaultItemCount = 5
	// DefaultHeadcount is the per-item baseline used by ModeHeadcount.
	DefaultHeadcount = 15
)

// DefaultVolumeRange is the inclusive range item volumes are sampled from.
var DefaultVolumeRange = Range{Min: 5, Max: 50}

// Item is a generated unit that receives a quantity. Items never change after generation.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

// Map holds the assigned quantity per item id.
type Map map[string]Value

// Clone returns a shallow copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Source supplies uniformly distributed floats in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// IDGenerator returns a new unique item identifier on every call.
type IDGenerator func() string
