package reorder_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"reel/internal/model"
	"reel/internal/reorder"
	"reel/internal/schedule"
)

// countingCommitter records reorder commits per parent.
type countingCommitter struct {
	mu    sync.Mutex
	calls map[string][][]string
	fail  bool
}

func newCountingCommitter() *countingCommitter {
	return &countingCommitter{calls: map[string][][]string{}}
}

func (c *countingCommitter) CommitReorder(parentID string, orderedItemIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[parentID] = append(c.calls[parentID], append([]string(nil), orderedItemIDs...))
	if c.fail {
		return errors.New("backend unavailable")
	}
	return nil
}

func (c *countingCommitter) callsFor(parentID string) [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[parentID]
}

func setup(t *testing.T) (*model.Library, *countingCommitter, *schedule.FakeClock, *reorder.Coordinator) {
	t.Helper()
	lib := model.NewLibrary()
	for _, id := range []string{"1", "2", "3"} {
		lib.AppendItem(model.Item{ID: id, ParentID: "set1", Name: id + ".png"})
	}
	committer := newCountingCommitter()
	clock := schedule.NewFakeClock()
	coord := reorder.New(reorder.Params{
		Library:     lib,
		Committer:   committer,
		QuietPeriod: 1500 * time.Millisecond,
		Clock:       clock,
	})
	return lib, committer, clock, coord
}

func TestApply_RenumbersImmediately(t *testing.T) {
	lib, _, _, coord := setup(t)

	if err := coord.Apply("set1", []string{"2", "3", "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{"2": 1, "3": 2, "1": 3}
	for id, seq := range want {
		if got := lib.GetItemByID(id).Sequence; got != seq {
			t.Errorf("item %s: expected sequence %d, got %d", id, seq, got)
		}
	}
}

func TestApply_RejectsBadOrder(t *testing.T) {
	_, _, _, coord := setup(t)

	if err := coord.Apply("set1", []string{"1", "2"}); err == nil {
		t.Error("expected error for short order")
	}
	if err := coord.Apply("set1", []string{"1", "2", "bogus"}); err == nil {
		t.Error("expected error for unknown id")
	}
	if err := coord.Apply("set1", []string{"1", "1", "2"}); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestRapidReorders_CoalesceToOneWrite(t *testing.T) {
	_, committer, clock, coord := setup(t)

	// Three rapid reorders inside the quiet period
	mustApply(t, coord, "set1", []string{"2", "1", "3"})
	clock.Advance(500 * time.Millisecond)
	mustApply(t, coord, "set1", []string{"2", "3", "1"})
	clock.Advance(500 * time.Millisecond)
	mustApply(t, coord, "set1", []string{"3", "2", "1"})

	if got := committer.callsFor("set1"); len(got) != 0 {
		t.Fatalf("expected no write during activity, got %d", len(got))
	}

	clock.Advance(1500 * time.Millisecond)

	calls := committer.callsFor("set1")
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 write, got %d", len(calls))
	}
	want := []string{"3", "2", "1"}
	for i, id := range want {
		if calls[0][i] != id {
			t.Errorf("final order position %d: expected %s, got %s", i, id, calls[0][i])
		}
	}
	if coord.HasPending("set1") {
		t.Error("expected pending entry cleared after flush")
	}
}

func TestReorders_DifferentParentsIndependent(t *testing.T) {
	lib, committer, clock, coord := setup(t)
	for _, id := range []string{"x", "y"} {
		lib.AppendItem(model.Item{ID: id, ParentID: "set2", Name: id + ".png"})
	}

	mustApply(t, coord, "set1", []string{"3", "2", "1"})
	clock.Advance(1 * time.Second)
	mustApply(t, coord, "set2", []string{"y", "x"})

	// set1's quiet period elapses while set2 is still pending
	clock.Advance(600 * time.Millisecond)
	if len(committer.callsFor("set1")) != 1 {
		t.Error("expected set1 flushed")
	}
	if len(committer.callsFor("set2")) != 0 {
		t.Error("expected set2 still pending")
	}

	clock.Advance(1 * time.Second)
	if len(committer.callsFor("set2")) != 1 {
		t.Error("expected set2 flushed")
	}
}

func TestCommitFailure_KeepsVisualOrderAndSurfacesError(t *testing.T) {
	lib, committer, clock, coord := setup(t)
	committer.fail = true

	var gotParent string
	var gotErr error
	coord.OnError = func(parentID string, err error) {
		gotParent = parentID
		gotErr = err
	}

	mustApply(t, coord, "set1", []string{"3", "1", "2"})
	clock.Advance(2 * time.Second)

	if gotParent != "set1" || gotErr == nil {
		t.Errorf("expected surfaced error for set1, got %q / %v", gotParent, gotErr)
	}
	// Visual order stays: re-dragging is the recovery path
	if got := lib.GetItemByID("3").Sequence; got != 1 {
		t.Errorf("expected visual order kept, item 3 at sequence %d", got)
	}
}

func TestClose_FlushesOutstandingOrder(t *testing.T) {
	_, committer, clock, coord := setup(t)

	mustApply(t, coord, "set1", []string{"2", "3", "1"})
	coord.Close()

	calls := committer.callsFor("set1")
	if len(calls) != 1 {
		t.Fatalf("expected Close to flush pending order, got %d writes", len(calls))
	}

	// Timers are dead: nothing further fires
	clock.Advance(5 * time.Second)
	if len(committer.callsFor("set1")) != 1 {
		t.Error("expected no additional writes after Close")
	}
}

func TestShift_MovesItemWithinParent(t *testing.T) {
	lib, _, _, coord := setup(t)

	if err := coord.Shift("set1", "1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := lib.GetItemsIn("set1")
	want := []string{"2", "3", "1"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}

	// Shifting past the boundary clamps
	if err := coord.Shift("set1", "1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items = lib.GetItemsIn("set1")
	if items[2].ID != "1" {
		t.Errorf("expected item 1 clamped at end, got %s", items[2].ID)
	}
}

func mustApply(t *testing.T, coord *reorder.Coordinator, parentID string, order []string) {
	t.Helper()
	if err := coord.Apply(parentID, order); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
}
