package quantity

// ApplyBulk computes a quantity for every item under mode and returns a new map.
// Every item is overwritten, so the result does not depend on current, which
// is never modified; keys in current that are not items are dropped.
// An empty bulk value yields empty quantities.
func ApplyBulk(mode Mode, bulk Value, headcount int, items []Item, current Map) Map {
	next := make(Map, len(items))
	for _, item := range items {
		next[item.ID] = bulkValue(mode, bulk, headcount, item)
	}
	return next
}

func bulkValue(mode Mode, bulk Value, headcount int, item Item) Value {
	switch mode {
	case ModeVolume:
		return bulk.Add(item.Volume)
	case ModeHeadcount:
		return bulk.Add(headcount)
	default:
		return bulk
	}
}

// InitialQuantities assigns each item its own volume.
func InitialQuantities(items []Item) Map {
	out := make(Map, len(items))
	for _, item := range items {
		out[item.ID] = Of(item.Volume)
	}
	return out
}
