package learning

import (
	"encoding/json"
	"sort"
	"time"
)

// Plan is a mentor-authored curriculum belonging to one user.
type Plan struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MentorID    string    `json:"mentor_id,omitempty"`
	Status      Status    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	Modules     []Module  `json:"modules,omitempty"`
}

// Module is a named group of lessons within a plan.
type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	OrderIndex  int      `json:"order_index"`
	Lessons     []Lesson `json:"lessons,omitempty"`
}

// Lesson is an atomic unit of study, theory or practical.
type Lesson struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	OrderIndex int    `json:"order_index"`
	Tasks      []Task `json:"tasks,omitempty"`

	// UserProgressStatus is the viewing user's progress for this lesson
	// as delivered by the plan detail endpoint ("completed" or empty).
	UserProgressStatus string `json:"user_progress_status,omitempty"`
}

// Lesson type constants.
const (
	LessonTypeTheory    = "theory"
	LessonTypePractical = "practical"
)

// Task is a question or exercise attached to a lesson. Display data only.
type Task struct {
	ID         string          `json:"id"`
	Question   string          `json:"question"`
	Type       string          `json:"type,omitempty"`
	Answer     string          `json:"answer,omitempty"`
	Options    json.RawMessage `json:"options,omitempty"`
	OrderIndex int             `json:"order_index"`
}

// Normalize sorts modules, lessons, and tasks by order_index, keeping the
// original sequence for equal indexes. The backend usually delivers plans
// ordered, but the ordering is part of the contract here, not an assumption.
func (p *Plan) Normalize() {
	sort.SliceStable(p.Modules, func(i, j int) bool {
		return p.Modules[i].OrderIndex < p.Modules[j].OrderIndex
	})
	for m := range p.Modules {
		lessons := p.Modules[m].Lessons
		sort.SliceStable(lessons, func(i, j int) bool {
			return lessons[i].OrderIndex < lessons[j].OrderIndex
		})
		for l := range lessons {
			tasks := lessons[l].Tasks
			sort.SliceStable(tasks, func(i, j int) bool {
				return tasks[i].OrderIndex < tasks[j].OrderIndex
			})
		}
	}
}

// Lessons flattens the plan's lessons across modules in display order.
func (p *Plan) Lessons() []Lesson {
	var out []Lesson
	for _, m := range p.Modules {
		out = append(out, m.Lessons...)
	}
	return out
}

// LessonIDs returns the IDs of all lessons in display order.
func (p *Plan) LessonIDs() []string {
	var ids []string
	for _, m := range p.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// LessonCount returns the total number of lessons in the plan.
func (p *Plan) LessonCount() int {
	n := 0
	for _, m := range p.Modules {
		n += len(m.Lessons)
	}
	return n
}

// CompletedLessonIDs returns the IDs of lessons the detail endpoint
// reported as completed for the viewing user.
func (p *Plan) CompletedLessonIDs() []string {
	var ids []string
	for _, m := range p.Modules {
		for _, l := range m.Lessons {
			if l.UserProgressStatus == "completed" {
				ids = append(ids, l.ID)
			}
		}
	}
	return ids
}
