package agenda

import (
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

// Summary is the dashboard's statistics block
type Summary struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"` // percent
	ThisWeekRate   float64 `json:"thisWeekRate"`   // percent of tasks due this week that are done
	OverdueTasks   int     `json:"overdueTasks"`
	TotalEvents    int     `json:"totalEvents"`
	TotalNotes     int     `json:"totalNotes"`
}

// Summarize computes the dashboard statistics as of at
func Summarize(tasks []models.Task, events []models.Event, notes []models.Note, at time.Time, weekStartsOn int) Summary {
	s := Summary{
		TotalTasks:  len(tasks),
		TotalEvents: len(events),
		TotalNotes:  len(notes),
	}

	var weekTotal, weekDone int
	for _, t := range tasks {
		done := t.Status == models.StatusDone
		if done {
			s.CompletedTasks++
		}
		if t.DueDate == nil {
			continue
		}
		if InWeek(*t.DueDate, at, weekStartsOn) {
			weekTotal++
			if done {
				weekDone++
			}
		}
		if t.DueDate.Before(at) && !done {
			s.OverdueTasks++
		}
	}

	s.CompletionRate = percent(s.CompletedTasks, s.TotalTasks)
	s.ThisWeekRate = percent(weekDone, weekTotal)
	return s
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
