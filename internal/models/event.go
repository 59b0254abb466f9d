package models

import "time"

// EventColors is the palette offered by the calendar. Any string is accepted.
var EventColors = []string{"blue", "green", "red", "purple", "orange", "pink"}

// Event represents a calendar entry. EndDate is not checked against StartDate.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Tags        []string  `json:"tags"`
	Color       string    `json:"color"`

	IsRecurring   *bool         `json:"isRecurring,omitempty"`
	RecurringType RecurringType `json:"recurringType,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventDraft holds everything a caller supplies to create an event
type EventDraft struct {
	Title         string
	Description   string
	Location      *string
	StartDate     time.Time
	EndDate       time.Time
	Tags          []string
	Color         string
	IsRecurring   *bool
	RecurringType RecurringType
}

// EventPatch is a partial update; nil fields are left untouched
type EventPatch struct {
	Title         *string
	Description   *string
	Location      *string
	ClearLocation bool
	StartDate     *time.Time
	EndDate       *time.Time
	Tags          *[]string
	Color         *string
	IsRecurring   *bool
	RecurringType *RecurringType
}

// NewEvent builds an event from a draft
func NewEvent(id string, d EventDraft, now time.Time) Event {
	return Event{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		Location:      cloneString(d.Location),
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		Tags:          cloneTags(d.Tags),
		Color:         d.Color,
		IsRecurring:   cloneBool(d.IsRecurring),
		RecurringType: d.RecurringType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply merges the patch over e
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ClearLocation {
		e.Location = nil
	} else if p.Location != nil {
		e.Location = cloneString(p.Location)
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.Tags != nil {
		e.Tags = cloneTags(*p.Tags)
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.IsRecurring != nil {
		e.IsRecurring = cloneBool(p.IsRecurring)
	}
	if p.RecurringType != nil {
		e.RecurringType = *p.RecurringType
	}
}

// Clone returns a deep copy
func (e Event) Clone() Event {
	e.Location = cloneString(e.Location)
	e.Tags = cloneTags(e.Tags)
	e.IsRecurring = cloneBool(e.IsRecurring)
	return e
}

// LocationOrEmpty returns the location or ""
func (e Event) LocationOrEmpty() string {
	if e.Location == nil {
		return ""
	}
	return *e.Location
}

// Recurring reports whether the recurrence flag is set
func (e Event) Recurring() bool {
	return e.IsRecurring != nil && *e.IsRecurring
}
