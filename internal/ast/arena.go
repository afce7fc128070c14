package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores values densely and hands out 1-based indices; 0 is never
// issued so it can serve as the "no value" id.
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Allocate appends value and returns its index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.items = append(a.items, value)
	idx, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return idx
}

// Get возвращает nil для 0 и для индекса за концом.
func (a *Arena[T]) Get(idx uint32) *T {
	if idx == 0 || uint64(idx) > uint64(len(a.items)) {
		return nil
	}
	return &a.items[idx-1]
}

// Slice exposes the backing storage; callers must not append to it.
func (a *Arena[T]) Slice() []T { return a.items }

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.items)) //nolint:gosec // bounded by Allocate
}
