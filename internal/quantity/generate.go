package quantity

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// NewSource returns a PCG source seeded with seed, or an entropy-seeded source when seed is 0.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// UUIDGenerator issues random (version 4) UUID strings.
func UUIDGenerator() string {
	return uuid.NewString()
}

// Sample draws an integer from r, rounding to the nearest value so both bounds are reachable.
func (r Range) Sample(src Source) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + int(math.Round(src.Float64()*float64(r.Max-r.Min)))
}

// Contains reports whether v lies within r.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// GenerateItems creates count items named "Item #1".."Item #count" with
// volumes sampled independently from volumes.
func GenerateItems(count int, volumes Range, src Source, ids IDGenerator) []Item {
	if count <= 0 {
		return []Item{}
	}

	items := make([]Item, count)
	for i := range items {
		items[i] = Item{
			ID:     ids(),
			Name:   fmt.Sprintf("Item #%d", i+1),
			Volume: volumes.Sample(src),
		}
	}
	return items
}
