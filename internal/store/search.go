package store

import (
	"strings"

	"github.com/balkashynov/daybook/internal/models"
)

// Results groups search hits per collection, in insertion order
type Results struct {
	Tasks  []models.Task  `json:"tasks"`
	Events []models.Event `json:"events"`
	Notes  []models.Note  `json:"notes"`
}

// Len is the total number of hits
func (r Results) Len() int {
	return len(r.Tasks) + len(r.Events) + len(r.Notes)
}

// Search does a case-insensitive substring match over titles, bodies,
// tags and event locations. There is no ranking and no limit; an empty
// query matches everything.
func (s *Store) Search(query string) Results {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	res := Results{
		Tasks:  []models.Task{},
		Events: []models.Event{},
		Notes:  []models.Note{},
	}
	for _, t := range s.tasks {
		if t.Matches(q) {
			res.Tasks = append(res.Tasks, t.Clone())
		}
	}
	for _, e := range s.events {
		if e.Matches(q) {
			res.Events = append(res.Events, e.Clone())
		}
	}
	for _, n := range s.notes {
		if n.Matches(q) {
			res.Notes = append(res.Notes, n.Clone())
		}
	}
	return res
}
