package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/balkashynov/daybook/internal/db"
)

// stepClock returns a fixed start time advanced by step on every call
type stepClock struct {
	current time.Time
	step    time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		current: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

func newTestStore(t *testing.T, medium db.Medium) (*Store, *stepClock) {
	t.Helper()
	clock := newStepClock()
	s := New(medium, WithClock(clock.Now), WithIDGenerator(sequentialIDs("id")))
	return s, clock
}

var errDiskFull = errors.New("quota exceeded")

// failingMedium wraps Memory and fails reads or writes of chosen keys
type failingMedium struct {
	*db.Memory
	failSet map[string]bool
	failGet map[string]bool
	sets    int
}

func newFailingMedium() *failingMedium {
	return &failingMedium{
		Memory:  db.NewMemory(),
		failSet: map[string]bool{},
		failGet: map[string]bool{},
	}
}

func (f *failingMedium) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet[key] {
		return "", false, errDiskFull
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingMedium) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.failSet[key] {
		return errDiskFull
	}
	return f.Memory.Set(ctx, key, value)
}

func ptr[T any](v T) *T { return &v }
