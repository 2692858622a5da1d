// Package cartsync keeps a client-resident mirror of one user's cart in
// step with the cart store. Mutations land on the mirror immediately;
// quantity writes are debounced per product so rapid clicks collapse into a
// single network write carrying the last requested value.
package cartsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
)

const (
	DefaultDebounce     = 500 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
)

var ErrClosed = errors.New("cart engine is closed")

// CartStore is the slice of the cart store contract the engine needs.
// *storeapi.CartClient satisfies it.
type CartStore interface {
	Get(ctx context.Context, userID string) ([]cart.Item, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Delete(ctx context.Context, userID, productID string) error
}

type Options struct {
	// Debounce is the per-product coalescing window. Zero means
	// DefaultDebounce.
	Debounce time.Duration
	// WriteTimeout bounds each background write.
	WriteTimeout time.Duration
	// OnError receives failures from debounced background writes; the
	// corresponding local mutation has already been rolled back when it is
	// called. Nil drops them.
	OnError func(error)
}

// pendingWrite is the coalesced write for one product plus the snapshot
// needed to compensate if it fails. prev is the line as it was before the
// first mutation in the window.
type pendingWrite struct {
	quantity  int
	prev      cart.Item
	prevIndex int
}

// Engine is a per-session controller. It owns its debounce timers and must
// be Closed when the cart view goes away so no timer outlives it.
type Engine struct {
	store        CartStore
	userID       string
	debounce     time.Duration
	writeTimeout time.Duration
	onError      func(error)

	mu      sync.Mutex
	items   []cart.Item
	timers  map[string]*time.Timer
	pending map[string]*pendingWrite
	closed  bool
}

func New(store CartStore, userID string, opts Options) *Engine {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Engine{
		store:        store,
		userID:       userID,
		debounce:     opts.Debounce,
		writeTimeout: opts.WriteTimeout,
		onError:      opts.OnError,
		timers:       make(map[string]*time.Timer),
		pending:      make(map[string]*pendingWrite),
	}
}

// Load replaces the mirror wholesale with the store's view. Pending writes
// are dropped: the store's answer supersedes them. On failure the mirror is
// left empty and the error returned for the caller to surface.
func (e *Engine) Load(ctx context.Context) error {
	items, err := e.store.Get(ctx, e.userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.cancelAllLocked()
	if err != nil {
		e.items = nil
		return fmt.Errorf("load cart: %w", err)
	}
	e.items = items
	return nil
}

// SetQuantity applies the new quantity to the mirror at once and schedules
// a debounced write. quantity < 1 removes the line locally and schedules a
// delete-equivalent write. Calls for different products are independent;
// calls for the same product within the window coalesce to the last value.
func (e *Engine) SetQuantity(productID string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	idx := e.indexLocked(productID)
	p, scheduled := e.pending[productID]
	if idx < 0 && !scheduled {
		// Not in the mirror and nothing in flight: nothing to do.
		return nil
	}
	if !scheduled {
		p = &pendingWrite{prev: e.items[idx], prevIndex: idx}
		e.pending[productID] = p
	}
	p.quantity = quantity

	switch {
	case quantity < 1 && idx >= 0:
		e.items = append(e.items[:idx], e.items[idx+1:]...)
	case quantity >= 1 && idx >= 0:
		e.items[idx].Quantity = quantity
	case quantity >= 1 && idx < 0:
		// Removed earlier in the same window; bring it back from the
		// snapshot with the new quantity.
		it := p.prev
		it.Quantity = quantity
		e.insertLocked(it, p.prevIndex)
	}

	if t, ok := e.timers[productID]; ok {
		t.Reset(e.debounce)
	} else {
		e.timers[productID] = time.AfterFunc(e.debounce, func() { e.flush(productID) })
	}
	return nil
}

// RemoveItem removes the line from the mirror and issues the delete
// immediately, without debouncing. Any write still scheduled for the
// product is cancelled: the removal supersedes it. On failure the mirror is
// reverted to the pre-removal snapshot.
func (e *Engine) RemoveItem(ctx context.Context, productID string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if t, ok := e.timers[productID]; ok {
		t.Stop()
		delete(e.timers, productID)
	}
	delete(e.pending, productID)

	idx := e.indexLocked(productID)
	if idx < 0 {
		e.mu.Unlock()
		return nil
	}
	removed := e.items[idx]
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.mu.Unlock()

	if err := e.store.Delete(ctx, e.userID, productID); err != nil {
		e.mu.Lock()
		if !e.closed && e.indexLocked(productID) < 0 {
			e.insertLocked(removed, idx)
		}
		e.mu.Unlock()
		return fmt.Errorf("remove %s from cart: %w", productID, err)
	}
	return nil
}

// Items returns a snapshot of the mirror.
func (e *Engine) Items() []cart.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]cart.Item, len(e.items))
	copy(out, e.items)
	return out
}

// Subtotal sums the mirror, without shipping.
func (e *Engine) Subtotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cart.Subtotal(e.items)
}

// Close cancels every pending debounce timer and refuses further
// mutations. Writes already in flight finish on their own; their rollback
// paths notice the engine is closed and leave the mirror alone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelAllLocked()
}

// flush sends the coalesced write for one product. Runs on the timer
// goroutine.
func (e *Engine) flush(productID string) {
	e.mu.Lock()
	p, ok := e.pending[productID]
	delete(e.pending, productID)
	if t, hasTimer := e.timers[productID]; hasTimer {
		t.Stop()
		delete(e.timers, productID)
	}
	closed := e.closed
	e.mu.Unlock()

	if !ok || closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.writeTimeout)
	defer cancel()

	if err := e.store.SetQuantity(ctx, e.userID, productID, p.quantity); err != nil {
		e.compensate(productID, p)
		e.report(fmt.Errorf("sync quantity for %s: %w", productID, err))
	}
}

// compensate restores the pre-mutation snapshot after a failed write, but
// only while the mirror still shows the failed write's outcome. A newer
// mutation or a reload owns the state and must not be clobbered by a late
// failure.
func (e *Engine) compensate(productID string, p *pendingWrite) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if _, newer := e.pending[productID]; newer {
		return
	}

	idx := e.indexLocked(productID)
	if p.quantity < 1 {
		if idx >= 0 {
			return
		}
		e.insertLocked(p.prev, p.prevIndex)
		return
	}
	if idx < 0 || e.items[idx].Quantity != p.quantity {
		return
	}
	e.items[idx].Quantity = p.prev.Quantity
}

func (e *Engine) report(err error) {
	if e.onError != nil {
		e.onError(err)
	}
}

func (e *Engine) cancelAllLocked() {
	for pid, t := range e.timers {
		t.Stop()
		delete(e.timers, pid)
	}
	for pid := range e.pending {
		delete(e.pending, pid)
	}
}

func (e *Engine) indexLocked(productID string) int {
	for i := range e.items {
		if e.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) insertLocked(it cart.Item, at int) {
	if at < 0 {
		at = 0
	}
	if at > len(e.items) {
		at = len(e.items)
	}
	e.items = append(e.items, cart.Item{})
	copy(e.items[at+1:], e.items[at:])
	e.items[at] = it
}
