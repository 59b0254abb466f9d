package store

import (
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

func taskID(t models.Task) string { return t.ID }

// AddTask appends a new task with a fresh id and timestamps
func (s *Store) AddTask(d models.TaskDraft) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.freshID(func(id string) bool { return indexOf(s.tasks, id, taskID) >= 0 })
	task := models.NewTask(id, d, s.now())
	s.tasks = append(s.tasks, task)
	s.persist(db.KeyTasks, s.tasks)
	return task.Clone()
}

// UpdateTask merges patch into the task. It returns false, and does
// nothing, when id is unknown.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id, taskID)
	if i < 0 {
		return models.Task{}, false
	}
	task := &s.tasks[i]
	patch.Apply(task)
	task.UpdatedAt = s.touch(task.UpdatedAt)
	s.persist(db.KeyTasks, s.tasks)
	return task.Clone(), true
}

// DeleteTask removes the task. Unknown ids are a no-op.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id, taskID)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persist(db.KeyTasks, s.tasks)
	return true
}

// Tasks returns a copy of all tasks in insertion order
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Task looks a task up by exact id
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.tasks, id, taskID); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// FindTask resolves a full id or unique id prefix
func (s *Store) FindTask(ref string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := resolve(s.tasks, ref, taskID)
	if err != nil {
		return models.Task{}, err
	}
	return s.tasks[i].Clone(), nil
}

func cloneTasks(in []models.Task) []models.Task {
	out := make([]models.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
