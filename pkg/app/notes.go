package app

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// ErrWrongPassword is returned when unlocking a note fails.
var ErrWrongPassword = errors.New("app: wrong note password")

// NoteStore owns the notes bucket.
type NoteStore struct {
	Deps
}

// NewNote is the input to Add. A non-empty Password protects the note.
type NewNote struct {
	Title    string
	Content  string
	Color    record.NoteColor
	Password string
}

// Add prepends a note. A missing title is derived from the content.
func (s *NoteStore) Add(ctx context.Context, in NewNote) (record.Note, error) {
	if err := s.ready(); err != nil {
		return record.Note{}, err
	}
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" && content == "" {
		return record.Note{}, invalid("note needs a title or content")
	}
	if title == "" {
		title = record.DeriveNoteTitle(content)
	}
	color := in.Color
	if !validColor(color) {
		color = record.NoteColors[0]
	}
	n := record.Note{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		Color:     color,
		Protect:   in.Password != "",
		Password:  in.Password,
		CreatedAt: s.millis(),
	}
	if err := record.Validate(n); err != nil {
		return record.Note{}, invalid("%v", err)
	}

	defer s.lock()()
	b := openBucket(s.Store, store.Notes, s.today())
	b.prepend("", record.Raw{
		"id": n.ID, "title": n.Title, "content": n.Content, "color": string(n.Color),
		"protect": n.Protect, "password": n.Password, "createdAt": n.CreatedAt,
	})
	return n, b.save(s.Store)
}

func validColor(c record.NoteColor) bool {
	for _, known := range record.NoteColors {
		if strings.EqualFold(string(c), string(known)) {
			return true
		}
	}
	return false
}

// List returns notes newest first.
func (s *NoteStore) List(ctx context.Context) ([]record.Note, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return analytics.New(s.Store, s.Clock).Notes(), nil
}

// Remove deletes a note.
func (s *NoteStore) Remove(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	b := openBucket(s.Store, store.Notes, s.today())
	if b.visit(func(_ string, m record.Raw) (bool, bool) { return idOf(m) == id, false }) == 0 {
		return ErrNotFound
	}
	return b.save(s.Store)
}

// Unlock returns a note, checking the password when it is protected.
func (s *NoteStore) Unlock(ctx context.Context, id, password string) (record.Note, error) {
	notes, err := s.List(ctx)
	if err != nil {
		return record.Note{}, err
	}
	for _, n := range notes {
		if n.ID != id {
			continue
		}
		if n.Protect && n.Password != password {
			return record.Note{}, ErrWrongPassword
		}
		return n, nil
	}
	return record.Note{}, ErrNotFound
}
