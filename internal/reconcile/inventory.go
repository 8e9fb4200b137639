package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/itassets/identity-sync/internal/graph"
)

// SKUSource reports the live inventory of a licence.
type SKUSource interface {
	SKUStatus(ctx context.Context, skuID string) (graph.SKUStatus, error)
}

// Inventory is the licence stock of one run. Each SKU is fetched once and then
// counted down locally as accounts are provisioned.
type Inventory struct {
	mu    sync.Mutex
	src   SKUSource
	stock map[string]*graph.SKUStatus
}

// NewInventory returns an empty inventory backed by src.
func NewInventory(src SKUSource) *Inventory {
	return &Inventory{src: src, stock: map[string]*graph.SKUStatus{}}
}

func (i *Inventory) status(ctx context.Context, skuID string) (*graph.SKUStatus, error) {
	if st, ok := i.stock[skuID]; ok {
		return st, nil
	}

	st, err := i.src.SKUStatus(ctx, skuID)
	if err != nil {
		return nil, fmt.Errorf("licence inventory %s: %w", graph.SkuName(skuID), err)
	}

	i.stock[skuID] = &st

	return &st, nil
}

// Reserve takes one unit of every SKU, or none when any of them is exhausted.
func (i *Inventory) Reserve(ctx context.Context, skuIDs []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, id := range skuIDs {
		st, err := i.status(ctx, id)
		if err != nil {
			return err
		}

		if st.Available() <= 0 {
			return fmt.Errorf("%w: %s (%d of %d consumed)", ErrLicenceExhausted, graph.SkuName(id), st.Consumed, st.Enabled)
		}
	}

	for _, id := range skuIDs {
		i.stock[id].Consumed++
	}

	return nil
}

// Release returns units taken by Reserve.
func (i *Inventory) Release(skuIDs []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, id := range skuIDs {
		if st, ok := i.stock[id]; ok && st.Consumed > 0 {
			st.Consumed--
		}
	}
}

// Available returns the units left of a SKU already fetched, and false otherwise.
func (i *Inventory) Available(skuID string) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	st, ok := i.stock[skuID]
	if !ok {
		return 0, false
	}

	return st.Available(), true
}
