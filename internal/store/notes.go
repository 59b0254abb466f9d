package store

import (
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func noteID(n models.Note) string { return n.ID }

// AddNote appends a new note with a fresh id and timestamps
func (s *Store) AddNote(d models.NoteDraft) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.freshID(func(id string) bool { return indexOf(s.notes, id, noteID) >= 0 })
	note := models.NewNote(id, d, s.now())
	s.notes = append(s.notes, note)
	s.persist(db.KeyNotes, s.notes)
	return note.Clone()
}

// UpdateNote merges patch into the note. It returns false, and does
// nothing, when id is unknown.
func (s *Store) UpdateNote(id string, patch models.NotePatch) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.notes, id, noteID)
	if i < 0 {
		return models.Note{}, false
	}
	note := &s.notes[i]
	patch.Apply(note)
	note.UpdatedAt = s.touch(note.UpdatedAt)
	s.persist(db.KeyNotes, s.notes)
	return note.Clone(), true
}

// DeleteNote removes the note. Unknown ids are a no-op.
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.notes, id, noteID)
	if i < 0 {
		return false
	}
	s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
	s.persist(db.KeyNotes, s.notes)
	return true
}

// Notes returns a copy of all notes in insertion order
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotes(s.notes)
}

// Note looks a note up by exact id
func (s *Store) Note(id string) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.notes, id, noteID); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return models.Note{}, false
}

// FindNote resolves a full id or unique id prefix
func (s *Store) FindNote(ref string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := resolve(s.notes, ref, noteID)
	if err != nil {
		return models.Note{}, err
	}
	return s.notes[i].Clone(), nil
}

func cloneNotes(in []models.Note) []models.Note {
	out := make([]models.Note, len(in))
	for i, n := range in {
		out[i] = n.Clone()
	}
	return out
}
