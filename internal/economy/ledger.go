// Package economy provides the resource and material ledgers of a campaign.
// Amounts are non-negative integers keyed by a closed enumeration; reading a
// kind that was never written yields zero.
package economy

import (
	"encoding/json"
	"math"

	"golang.org/x/exp/constraints"
)

// Kind is a closed enumeration usable as a ledger key.
type Kind interface {
	constraints.Unsigned
	Valid() bool
}

// Ledger maps kinds to non-negative amounts.
// Not safe for concurrent use; callers serialize mutation.
type Ledger[K Kind] struct {
	amounts  map[K]int
	defaults map[K]int // Restored by Reset
}

// NewLedger creates a ledger seeded with the given default balances.
func NewLedger[K Kind](defaults map[K]int) *Ledger[K] {
	l := &Ledger[K]{defaults: make(map[K]int, len(defaults))}
	for k, v := range defaults {
		if k.Valid() {
			l.defaults[k] = max(0, v)
		}
	}
	l.Reset()
	return l
}

// NewResourceLedger returns a ledger holding the starting resource balances.
func NewResourceLedger() *Ledger[ResourceKind] {
	return NewLedger(map[ResourceKind]int{
		ResourceCurrency:       StartCurrency,
		ResourceAlloys:         StartAlloys,
		ResourceTechComponents: StartTechComponents,
		ResourceIntel:          StartIntel,
	})
}

// NewMaterialLedger returns an empty material ledger.
func NewMaterialLedger() *Ledger[MaterialKind] {
	return NewLedger[MaterialKind](nil)
}

// Get returns the amount held for kind, or 0 if none was recorded.
func (l *Ledger[K]) Get(kind K) int {
	return l.amounts[kind]
}

// Has reports whether at least amount of kind is held.
func (l *Ledger[K]) Has(kind K, amount int) bool {
	return l.Get(kind) >= amount
}

// Add applies delta to kind. Negative results clamp to zero and sums past
// math.MaxInt saturate. It returns the previous and new amounts.
func (l *Ledger[K]) Add(kind K, delta int) (old, updated int) {
	old = l.Get(kind)
	if !kind.Valid() {
		return old, old
	}
	if delta > 0 && old > math.MaxInt-delta {
		updated = math.MaxInt
	} else {
		updated = max(0, old+delta)
	}
	l.ensure()
	l.amounts[kind] = updated
	return old, updated
}

// Spend removes amount of kind if the full amount is held. It leaves the
// ledger untouched and returns false otherwise.
func (l *Ledger[K]) Spend(kind K, amount int) bool {
	if amount < 0 || !kind.Valid() || !l.Has(kind, amount) {
		return false
	}
	l.ensure()
	l.amounts[kind] -= amount
	return true
}

// SpendAll spends every cost in costs, or nothing if any is unaffordable.
func (l *Ledger[K]) SpendAll(costs map[K]int) bool {
	for k, v := range costs {
		if v < 0 || !k.Valid() || !l.Has(k, v) {
			return false
		}
	}
	l.ensure()
	for k, v := range costs {
		l.amounts[k] -= v
	}
	return true
}

// Set overwrites the amount of kind, clamped to zero.
func (l *Ledger[K]) Set(kind K, amount int) {
	if !kind.Valid() {
		return
	}
	l.ensure()
	l.amounts[kind] = max(0, amount)
}

func (l *Ledger[K]) ensure() {
	if l.amounts == nil {
		l.amounts = make(map[K]int)
	}
}

// Reset restores the default balances; a ledger without defaults becomes empty.
func (l *Ledger[K]) Reset() {
	l.amounts = make(map[K]int, len(l.defaults))
	for k, v := range l.defaults {
		l.amounts[k] = v
	}
}

// Snapshot returns a copy of the stored amounts.
func (l *Ledger[K]) Snapshot() map[K]int {
	out := make(map[K]int, len(l.amounts))
	for k, v := range l.amounts {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the ledger, defaults included.
func (l *Ledger[K]) Clone() *Ledger[K] {
	c := &Ledger[K]{
		amounts:  l.Snapshot(),
		defaults: make(map[K]int, len(l.defaults)),
	}
	for k, v := range l.defaults {
		c.defaults[k] = v
	}
	return c
}

// Equal reports whether both ledgers hold the same amounts.
// A kind recorded as zero equals an absent kind.
func (l *Ledger[K]) Equal(other *Ledger[K]) bool {
	for k, v := range l.amounts {
		if other.Get(k) != v {
			return false
		}
	}
	for k, v := range other.amounts {
		if l.Get(k) != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the amounts keyed by kind name.
func (l *Ledger[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.amounts)
}

// UnmarshalJSON replaces the amounts; defaults are kept.
func (l *Ledger[K]) UnmarshalJSON(b []byte) error {
	var amounts map[K]int
	if err := json.Unmarshal(b, &amounts); err != nil {
		return err
	}
	l.amounts = make(map[K]int, len(amounts))
	for k, v := range amounts {
		if k.Valid() {
			l.amounts[k] = max(0, v)
		}
	}
	return nil
}
