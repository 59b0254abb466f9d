package store

import (
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func eventID(e models.Event) string { return e.ID }

// AddEvent appends a new event with a fresh id and timestamps
func (s *Store) AddEvent(d models.EventDraft) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.freshID(func(id string) bool { return indexOf(s.events, id, eventID) >= 0 })
	event := models.NewEvent(id, d, s.now())
	s.events = append(s.events, event)
	s.persist(db.KeyEvents, s.events)
	return event.Clone()
}

// UpdateEvent merges patch into the event. It returns false, and does
// nothing, when id is unknown.
func (s *Store) UpdateEvent(id string, patch models.EventPatch) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.events, id, eventID)
	if i < 0 {
		return models.Event{}, false
	}
	event := &s.events[i]
	patch.Apply(event)
	event.UpdatedAt = s.touch(event.UpdatedAt)
	s.persist(db.KeyEvents, s.events)
	return event.Clone(), true
}

// DeleteEvent removes the event. Unknown ids are a no-op.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.events, id, eventID)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i:i], s.events[i+1:]...)
	s.persist(db.KeyEvents, s.events)
	return true
}

// Events returns a copy of all events in insertion order
func (s *Store) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(s.events)
}

// Event looks an event up by exact id
func (s *Store) Event(id string) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.events, id, eventID); i >= 0 {
		return s.events[i].Clone(), true
	}
	return models.Event{}, false
}

// FindEvent resolves a full id or unique id prefix
func (s *Store) FindEvent(ref string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := resolve(s.events, ref, eventID)
	if err != nil {
		return models.Event{}, err
	}
	return s.events[i].Clone(), nil
}

func cloneEvents(in []models.Event) []models.Event {
	out := make([]models.Event, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
