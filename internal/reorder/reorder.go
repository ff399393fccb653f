// Package reorder applies drag/keyboard reorders to an ordered item
// sequence with instant local renumbering, then persists them with
// debounced, coalesced writes: at most one persistence call per parent per
// quiet period, carrying only the final order.
package reorder

import (
	"fmt"
	"sync"
	"time"

	"reel/internal/model"
	"reel/internal/schedule"
)

// DefaultQuietPeriod is how long the coordinator waits for reordering to
// settle before persisting.
const DefaultQuietPeriod = 1500 * time.Millisecond

// Committer persists the final order of a parent's items.
type Committer interface {
	CommitReorder(parentID string, orderedItemIDs []string) error
}

// Coordinator tracks pending reorders per parent and flushes them after a
// quiet period. Commit failures do not roll back the visual order; the user
// re-dragging is the recovery path, so failures surface through OnError as
// retryable.
type Coordinator struct {
	mu        sync.Mutex
	lib       *model.Library
	committer Committer
	sched     *schedule.Scheduler
	pending   map[string][]string

	// OnError receives asynchronous commit failures. Optional.
	OnError func(parentID string, err error)
}

// Params configures a Coordinator. Clock and QuietPeriod are optional;
// tests pass a fake clock to drive the debounce deterministically.
type Params struct {
	Library     *model.Library
	Committer   Committer
	QuietPeriod time.Duration
	Clock       schedule.Clock
}

// New creates a Coordinator.
func New(params Params) *Coordinator {
	period := params.QuietPeriod
	if period == 0 {
		period = DefaultQuietPeriod
	}
	return &Coordinator{
		lib:       params.Library,
		committer: params.Committer,
		sched:     schedule.New(period, params.Clock),
		pending:   map[string][]string{},
	}
}

// Apply sets the new order for a parent's items. Sequences are renumbered
// 1..N locally at once; the persistence write is scheduled for after the
// quiet period, replacing any pending write for the same parent.
//
// orderedIDs must be a permutation of the parent's current item ids.
func (c *Coordinator) Apply(parentID string, orderedIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.lib.GetItemsIn(parentID)
	if len(orderedIDs) != len(current) {
		return fmt.Errorf("order has %d ids, parent has %d items", len(orderedIDs), len(current))
	}
	known := map[string]bool{}
	for _, it := range current {
		known[it.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return fmt.Errorf("unknown item in order: %s", id)
		}
		delete(known, id)
	}

	for seq, id := range orderedIDs {
		c.lib.GetItemByID(id).Sequence = seq + 1
	}

	c.pending[parentID] = append([]string(nil), orderedIDs...)
	c.sched.Schedule(parentID, func() { c.flush(parentID) })
	return nil
}

// Shift moves one item by delta positions within its parent and applies the
// resulting order. A delta that runs off either end clamps to the boundary.
func (c *Coordinator) Shift(parentID, itemID string, delta int) error {
	items := c.lib.GetItemsIn(parentID)
	idx := -1
	for i, it := range items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("item not found in parent: %s", itemID)
	}

	target := idx + delta
	if target < 0 {
		target = 0
	}
	if target > len(items)-1 {
		target = len(items) - 1
	}
	if target == idx {
		return nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	id := ids[idx]
	ids = append(ids[:idx], ids[idx+1:]...)
	ids = append(ids[:target], append([]string{id}, ids[target:]...)...)

	return c.Apply(parentID, ids)
}

// flush persists the pending order for a parent and clears it.
func (c *Coordinator) flush(parentID string) {
	c.mu.Lock()
	order, ok := c.pending[parentID]
	if ok {
		delete(c.pending, parentID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := c.committer.CommitReorder(parentID, order); err != nil {
		if c.OnError != nil {
			c.OnError(parentID, err)
		}
	}
}

// HasPending reports whether a parent has an unflushed reorder.
func (c *Coordinator) HasPending(parentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[parentID]
	return ok
}

// Close stops all debounce timers and synchronously flushes any outstanding
// orders, so the user's last edit is never lost on teardown.
func (c *Coordinator) Close() {
	c.sched.Close()

	c.mu.Lock()
	parents := make([]string, 0, len(c.pending))
	for parentID := range c.pending {
		parents = append(parents, parentID)
	}
	c.mu.Unlock()

	for _, parentID := range parents {
		c.flush(parentID)
	}
}
