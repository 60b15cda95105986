package quantity

import (
	"fmt"
	"slices"
)

// Engine holds the quantity form state. It is not safe for concurrent use;
// callers serialize access (see internal/storage).
type Engine struct {
	items      []Item
	index      map[string]struct{}
	mode       Mode
	bulk       Value
	quantities Map
	headcount  int
	eager      bool
}

type engineConfig struct {
	count     int
	volumes   Range
	headcount int
	source    Source
	ids       IDGenerator
	eager     bool
}

// Option configures New.
type Option func(*engineConfig)

// WithItemCount sets how many items are generated.
func WithItemCount(count int) Option {
	return func(cfg *engineConfig) {
		cfg.count = count
	}
}

// WithVolumeRange sets the inclusive range item volumes are sampled from.
func WithVolumeRange(r Range) Option {
	return func(cfg *engineConfig) {
		cfg.volumes = r
	}
}

// WithHeadcount overrides the headcount baseline.
func WithHeadcount(headcount int) Option {
	return func(cfg *engineConfig) {
		cfg.headcount = headcount
	}
}

// WithSource overrides the random source, primarily for tests.
func WithSource(src Source) Option {
	return func(cfg *engineConfig) {
		if src != nil {
			cfg.source = src
		}
	}
}

// WithIDGenerator overrides the item id generator, primarily for tests.
func WithIDGenerator(ids IDGenerator) Option {
	return func(cfg *engineConfig) {
		if ids != nil {
			cfg.ids = ids
		}
	}
}

// WithEagerRecompute makes SetMode reapply the bulk quantity immediately
// instead of waiting for Apply.
func WithEagerRecompute(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.eager = enabled
	}
}

// New generates the items and assigns each one its volume. The initial mode is
// ModeVolume with a zero bulk quantity.
func New(opts ...Option) *Engine {
	cfg := engineConfig{
		count:     DefaultItemCount,
		volumes:   DefaultVolumeRange,
		headcount: DefaultHeadcount,
		ids:       UUIDGenerator,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.source == nil {
		cfg.source = NewSource(0)
	}

	items := GenerateItems(cfg.count, cfg.volumes, cfg.source, cfg.ids)
	index := make(map[string]struct{}, len(items))
	for _, item := range items {
		index[item.ID] = struct{}{}
	}

	return &Engine{
		items:      items,
		index:      index,
		mode:       ModeVolume,
		bulk:       Of(0),
		quantities: InitialQuantities(items),
		headcount:  cfg.headcount,
		eager:      cfg.eager,
	}
}

// Items returns a copy of the generated items in display order.
func (e *Engine) Items() []Item {
	return slices.Clone(e.items)
}

// Mode returns the selected mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// BulkQuantity returns the last bulk input.
func (e *Engine) BulkQuantity() Value {
	return e.bulk
}

// Headcount returns the headcount baseline.
func (e *Engine) Headcount() int {
	return e.headcount
}

// EagerRecompute reports whether SetMode recomputes quantities.
func (e *Engine) EagerRecompute() bool {
	return e.eager
}

// Quantities returns a copy of the current quantity map.
func (e *Engine) Quantities() Map {
	return e.quantities.Clone()
}

// Quantity returns the quantity for id. Unassigned items report Empty.
func (e *Engine) Quantity(id string) Value {
	return e.quantities[id]
}

// SetMode selects mode. Quantities are only recomputed when eager recompute is enabled.
func (e *Engine) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	e.mode = mode
	if e.eager {
		e.Apply()
	}
	return nil
}

// SetBulkQuantity stores the bulk input without touching quantities.
func (e *Engine) SetBulkQuantity(v Value) {
	e.bulk = v
}

// CanApply reports whether Apply is offered to the user. Fixed mode needs a
// non-zero bulk quantity; every other mode accepts any adjustment.
func (e *Engine) CanApply() bool {
	return !(e.mode == ModeFixed && e.bulk.IsZero())
}

// Apply recomputes every quantity from the current mode and bulk quantity and
// returns a copy of the result. Mode and bulk quantity are kept for reuse.
func (e *Engine) Apply() Map {
	e.quantities = ApplyBulk(e.mode, e.bulk, e.headcount, e.items, e.quantities)
	return e.quantities.Clone()
}

// SetItemQuantity overrides the quantity of a single item.
func (e *Engine) SetItemQuantity(id string, v Value) error {
	if _, ok := e.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	next := e.quantities.Clone()
	next[id] = v
	e.quantities = next
	return nil
}
