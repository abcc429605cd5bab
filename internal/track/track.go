// Package track keeps the per point-source tracing state.
package track

import (
	"time"

	"github.com/airpen/airpen/pkg/core"
)

// Track is the in-progress state for one point source.
type Track struct {
	ID     int // point-source id, the table key
	HandID int // hand the point source belonged to when the track was created

	// Counter is the priming progress; a track is active once it exceeds the
	// priming sample count.
	Counter int

	// Previous is the last accepted sample.
	Previous core.Vector

	// Deadline gates how often priming samples are evaluated.
	Deadline time.Time

	// Line is owned by the track until it is flushed to the finished list.
	Line core.Stroke
}

// Table maps point-source ids to tracks and remembers insertion order so
// iteration and draining are deterministic. It is not safe for concurrent use;
// callers hold the shared-state guard.
type Table struct {
	tracks map[int]*Track
	order  []int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		tracks: make(map[int]*Track),
	}
}

// Get returns the track for id.
func (t *Table) Get(id int) (*Track, bool) {
	tr, ok := t.tracks[id]
	return tr, ok
}

// GetOrCreate returns the track for id, creating a zero track owned by handID
// on first observation.
func (t *Table) GetOrCreate(id, handID int) *Track {
	if tr, ok := t.tracks[id]; ok {
		return tr
	}
	tr := &Track{ID: id, HandID: handID}
	t.tracks[id] = tr
	t.order = append(t.order, id)
	return tr
}

// FindByHand returns the first track, in insertion order, created for handID.
func (t *Table) FindByHand(handID int) (*Track, bool) {
	for _, id := range t.order {
		if tr := t.tracks[id]; tr.HandID == handID {
			return tr, true
		}
	}
	return nil, false
}

// Remove deletes the track for id and returns it.
func (t *Table) Remove(id int) (*Track, bool) {
	tr, ok := t.tracks[id]
	if !ok {
		return nil, false
	}
	delete(t.tracks, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return tr, true
}

// Len returns the number of tracks.
func (t *Table) Len() int {
	return len(t.tracks)
}

// Each calls fn for every track in insertion order. fn must not modify the table.
func (t *Table) Each(fn func(*Track)) {
	for _, id := range t.order {
		fn(t.tracks[id])
	}
}

// Drain empties the table and returns its tracks in insertion order.
func (t *Table) Drain() []*Track {
	out := make([]*Track, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.tracks[id])
	}
	t.tracks = make(map[int]*Track)
	t.order = t.order[:0]
	return out
}
