package models

import "time"

// Note is a freeform text entry. Content is markdown-ish; only viewers care.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteDraft holds everything a caller supplies to create a note
type NoteDraft struct {
	Title    string
	Content  string
	Tags     []string
	IsPinned bool
}

// NotePatch is a partial update; nil fields are left untouched
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	IsPinned *bool
}

// NewNote builds a note from a draft
func NewNote(id string, d NoteDraft, now time.Time) Note {
	return Note{
		ID:        id,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      cloneTags(d.Tags),
		IsPinned:  d.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges the patch over n
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = cloneTags(*p.Tags)
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
}

// Clone returns a deep copy
func (n Note) Clone() Note {
	n.Tags = cloneTags(n.Tags)
	return n
}
