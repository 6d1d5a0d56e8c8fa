package learning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrUnknownLesson is returned when a lesson ID does not belong to the
// plan a Tracker was built for. This is a caller bug, not a backend error.
var ErrUnknownLesson = errors.New("lesson does not belong to this plan")

// ProgressWriter persists a lesson completion for the current user.
type ProgressWriter interface {
	MarkLessonComplete(ctx context.Context, lessonID string) error
}

// Progress is the derived completion metric for a lesson list.
type Progress struct {
	Completed int
	Total     int
	Percent   int
}

// Tracker records which lessons of one plan the current user has
// completed. The completed set only grows: there is no unmark operation.
// The backend write happens before the local set is mutated, so a failed
// write never leaves the tracker ahead of the server.
type Tracker struct {
	writer ProgressWriter

	mu    sync.Mutex
	known map[string]bool
	done  map[string]bool
}

// NewTracker creates a tracker for the given lesson IDs, seeding the
// completed set from lessons the backend already reported as done.
func NewTracker(writer ProgressWriter, lessonIDs, completed []string) *Tracker {
	t := &Tracker{
		writer: writer,
		known:  make(map[string]bool, len(lessonIDs)),
		done:   make(map[string]bool, len(completed)),
	}
	for _, id := range lessonIDs {
		t.known[id] = true
	}
	for _, id := range completed {
		if t.known[id] {
			t.done[id] = true
		}
	}
	return t
}

// MarkCompleted writes the completion to the backend and, on success,
// adds lessonID to the completed set. Marking an already-completed lesson
// succeeds without a second write.
func (t *Tracker) MarkCompleted(ctx context.Context, lessonID string) error {
	t.mu.Lock()
	if !t.known[lessonID] {
		t.mu.Unlock()
		return fmt.Errorf("mark lesson %s: %w", lessonID, ErrUnknownLesson)
	}
	if t.done[lessonID] {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	if err := t.writer.MarkLessonComplete(ctx, lessonID); err != nil {
		return fmt.Errorf("save progress for lesson %s: %w", lessonID, err)
	}

	t.mu.Lock()
	t.done[lessonID] = true
	t.mu.Unlock()
	return nil
}

// IsCompleted reports whether lessonID is in the completed set.
func (t *Tracker) IsCompleted(lessonID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done[lessonID]
}

// Progress computes the completion metric over the given ordered lesson
// IDs. Recomputed on demand, never cached.
func (t *Tracker) Progress(lessonIDs []string) Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	completed := 0
	for _, id := range lessonIDs {
		if t.done[id] {
			completed++
		}
	}

	p := Progress{Completed: completed, Total: len(lessonIDs)}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(completed) / float64(p.Total) * 100))
	}
	return p
}

// AllComplete reports whether every ID in lessonIDs is completed.
// An empty list is never considered complete.
func (t *Tracker) AllComplete(lessonIDs []string) bool {
	if len(lessonIDs) == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range lessonIDs {
		if !t.done[id] {
			return false
		}
	}
	return true
}
