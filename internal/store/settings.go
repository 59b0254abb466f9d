package store

import (
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

// Settings returns the current settings
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings merges patch over the current settings and persists them
func (s *Store) UpdateSettings(patch models.SettingsPatch) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	patch.Apply(&s.settings)
	s.persist(db.KeySettings, s.settings)
	return s.settings
}
