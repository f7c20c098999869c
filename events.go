package grove

import (
	"sort"

	"go.uber.org/zap"
)

// callbackEntry is one registered callback. Entries are never reused: a
// removed entry is flagged and compacted out before the next dispatch of its
// event, so removal during a dispatch never disturbs the running iteration.
type callbackEntry struct {
	id      uint32
	fn      func()
	inst    *Instance // owning instance, nil for host callbacks
	removed bool
}

// callbackTable holds the callbacks for one family of events (update or
// draw), ordered by event type and, within a type, by registration.
type callbackTable struct {
	lists   [eventTypeCount][]*callbackEntry
	garbage [eventTypeCount]int
}

// CallbackHandle identifies a registered callback so it can be removed.
// The zero value is valid and Remove on it is a no-op.
type CallbackHandle struct {
	entry *callbackEntry
	event EventType
	game  *Game
}

// Remove unregisters the callback. Safe to call during any phase and more
// than once.
func (h CallbackHandle) Remove() {
	if h.entry == nil || h.game == nil || h.entry.removed {
		return
	}
	h.entry.removed = true
	h.game.table(h.event).garbage[h.event]++
}

// Active reports whether the callback is still registered.
func (h CallbackHandle) Active() bool {
	return h.entry != nil && !h.entry.removed
}

// Register adds fn to the table for event e and returns a handle for
// removing it. Callbacks registered while e is being dispatched first run
// the next time e is dispatched.
func (g *Game) Register(e EventType, fn func()) CallbackHandle {
	return g.register(e, fn, nil)
}

func (g *Game) register(e EventType, fn func(), inst *Instance) CallbackHandle {
	if fn == nil || e >= eventTypeCount {
		return CallbackHandle{}
	}
	g.nextCallbackID++
	entry := &callbackEntry{id: g.nextCallbackID, fn: fn, inst: inst}
	t := g.table(e)
	t.lists[e] = append(t.lists[e], entry)
	return CallbackHandle{entry: entry, event: e, game: g}
}

// Unregister removes the callback identified by h. Equivalent to h.Remove().
func (g *Game) Unregister(h CallbackHandle) {
	h.Remove()
}

// CallbackCount returns the number of live callbacks registered for e.
func (g *Game) CallbackCount(e EventType) int {
	if e >= eventTypeCount {
		return 0
	}
	t := g.table(e)
	return len(t.lists[e]) - t.garbage[e]
}

func (g *Game) table(e EventType) *callbackTable {
	if e.isDraw() {
		return &g.drawTable
	}
	return &g.updateTable
}

// clear flags every entry as removed and drops all lists. Iterations in
// progress see their remaining entries as removed and skip them.
func (t *callbackTable) clear() {
	for e := range t.lists {
		for _, entry := range t.lists[e] {
			entry.removed = true
		}
		t.lists[e] = nil
		t.garbage[e] = 0
	}
}

// compact drops removed entries from the list for e.
func (t *callbackTable) compact(e EventType) {
	if t.garbage[e] == 0 {
		return
	}
	list := t.lists[e]
	out := list[:0]
	for _, entry := range list {
		if !entry.removed {
			out = append(out, entry)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	t.lists[e] = out
	t.garbage[e] = 0
}

// dispatch runs every callback registered for e when dispatch began.
func (g *Game) dispatch(e EventType) {
	t := g.table(e)
	t.compact(e)
	list := t.lists[e]
	if e == EventDraw {
		sortByDepth(list)
	}
	n := len(list)
	for i := 0; i < n; i++ {
		entry := list[i]
		if entry.removed {
			continue
		}
		g.invoke(e, entry.fn)
	}
}

// runQueue drains a one-shot queue. The queue is detached before running so
// callbacks queued while it drains run on the next tick.
func (g *Game) runQueue(e EventType, q *[]func()) {
	pending := *q
	*q = nil
	for _, fn := range pending {
		g.invoke(e, fn)
	}
}

// invoke calls fn and keeps the frame loop alive if it panics.
func (g *Game) invoke(e EventType, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			g.stats.panics++
			g.log.Error("callback panicked",
				zap.Stringer("event", e),
				zap.Any("panic", r))
		}
	}()
	fn()
}

// sortByDepth orders draw callbacks so deeper instances draw first. Host
// callbacks count as depth 0. The sort is stable so equal depths keep their
// registration order.
func sortByDepth(list []*callbackEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return entryDepth(list[i]) > entryDepth(list[j])
	})
}

func entryDepth(e *callbackEntry) float64 {
	if e.inst == nil {
		return 0
	}
	return e.inst.Depth
}
