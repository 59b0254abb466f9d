// Package store is the single source of truth for tasks, events, notes and
// settings. It hydrates once from a db.Medium and writes the whole affected
// collection back after every mutation. Persistence is best effort: a failed
// write is logged and the in-memory change stands.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/logger"
	"github.com/balkashynov/daybook/internal/models"
)

// Clock supplies the current time
type Clock func() time.Time

// IDGenerator supplies fresh record ids
type IDGenerator func() string

// Store holds the four collections. All methods are safe for concurrent use.
type Store struct {
	mu sync.Mutex

	medium db.Medium
	ctx    context.Context
	clock  Clock
	newID  IDGenerator
	log    *logger.Logger

	tasks    []models.Task
	events   []models.Event
	notes    []models.Note
	settings models.Settings

	lastWriteErr error
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.newID = g }
}

// WithLogger sets the logger used for persistence failures
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithContext sets the context passed to the medium
func WithContext(ctx context.Context) Option {
	return func(s *Store) { s.ctx = ctx }
}

// New constructs a Store and hydrates it from medium
func New(medium db.Medium, opts ...Option) *Store {
	s := &Store{
		medium:   medium,
		ctx:      context.Background(),
		clock:    time.Now,
		newID:    uuid.NewString,
		log:      logger.Nop(),
		settings: models.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

// load reads every slot independently. A missing or corrupt slot falls
// back to its empty value without affecting the others.
func (s *Store) load() {
	if tasks, ok := loadSlot[[]models.Task](s, db.KeyTasks); ok {
		for i := range tasks {
			normalizeTags(&tasks[i].Tags)
		}
		s.tasks = tasks
	}
	if events, ok := loadSlot[[]models.Event](s, db.KeyEvents); ok {
		for i := range events {
			normalizeTags(&events[i].Tags)
		}
		s.events = events
	}
	if notes, ok := loadSlot[[]models.Note](s, db.KeyNotes); ok {
		for i := range notes {
			normalizeTags(&notes[i].Tags)
		}
		s.notes = notes
	}

	raw, ok := s.readSlot(db.KeySettings)
	if !ok {
		return
	}
	// Stored fields overlay the defaults
	settings := models.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.WithSlot(db.KeySettings).WithError(err).Warn("stored settings are unreadable, using defaults")
		return
	}
	s.settings = settings
}

func loadSlot[T any](s *Store, key string) (T, bool) {
	var out T
	raw, ok := s.readSlot(key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.log.WithSlot(key).WithError(err).Warn("stored collection is unreadable, starting empty")
		var zero T
		return zero, false
	}
	return out, true
}

func (s *Store) readSlot(key string) (string, bool) {
	raw, ok, err := s.medium.Get(s.ctx, key)
	if err != nil {
		s.log.WithSlot(key).WithError(err).Warn("failed to read slot")
		return "", false
	}
	return raw, ok
}

// persist serializes a whole collection into its slot. Callers hold mu.
func (s *Store) persist(key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.medium.Set(s.ctx, key, string(data))
	}
	if err != nil {
		s.log.WithSlot(key).WithError(err).Error("failed to persist, change kept in memory only")
		s.lastWriteErr = err
		return
	}
	s.lastWriteErr = nil
}

// LastWriteError returns the error of the most recent write, or nil if it
// succeeded. Mutations never return persistence errors themselves.
func (s *Store) LastWriteError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWriteErr
}

// now returns the clock reading at millisecond resolution, in UTC
func (s *Store) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// touch returns a timestamp no earlier than prev
func (s *Store) touch(prev time.Time) time.Time {
	now := s.now()
	if now.Before(prev) {
		return prev
	}
	return now
}

// freshID returns an id not present in the collection. A generator that
// repeats itself is backed up by random UUIDs.
func (s *Store) freshID(taken func(string) bool) string {
	id := s.newID()
	for taken(id) {
		id = uuid.NewString()
	}
	return id
}

func normalizeTags(tags *[]string) {
	if *tags == nil {
		*tags = []string{}
	}
}
