// Package quantity assigns label quantities to a fixed set of generated items.
// An Engine owns the items, the selected Mode, the bulk quantity input and the
// per-item quantity map. Bulk application is a pure function over those values
// (see ApplyBulk); the Engine only stores its result.
package quantity
