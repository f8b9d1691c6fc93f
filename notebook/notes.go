package notebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	Note struct {
		ID        int64
		UserID    int64
		Title     string
		Content   string
		UpdatedAt time.Time
	}
)

// Every note operation below is scoped by owner: touching a note that
// belongs to someone else is indistinguishable from touching a note
// that does not exist.

func (s *Store) CreateNote(ctx context.Context, userID int64, title, content string) (Note, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `insert into notes (user_id, title, content, updated_at) values (?, ?, ?, ?)`,
		userID, title, content, now.Unix())
	if err != nil {
		return Note{}, fmt.Errorf("unable to store note in notebook, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, fmt.Errorf("unable to read id of new note, cause %w", err)
	}
	return Note{ID: id, UserID: userID, Title: title, Content: content, UpdatedAt: now}, nil
}

// ListNotes returns the owner's notes, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, userID int64) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `select note_id, user_id, title, content, updated_at
	from notes where user_id = ? order by updated_at desc, note_id desc`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list notes of user %v, cause %w", userID, err)
	}
	defer rows.Close()
	var out []Note
	for rows.Next() {
		var n Note
		var updatedAt int64
		err = rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan note to output, cause %w", err)
		}
		n.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) FindNote(ctx context.Context, userID, noteID int64) (Note, error) {
	var n Note
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, `select note_id, user_id, title, content, updated_at
	from notes where note_id = ? and user_id = ?`, noteID, userID).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, NoteNotFound{ID: noteID}
	} else if err != nil {
		return Note{}, fmt.Errorf("unable to load note %v from notebook, cause %w", noteID, err)
	}
	n.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, userID, noteID int64, title, content string) error {
	res, err := s.db.ExecContext(ctx, `update notes set title = ?, content = ?, updated_at = ?
	where note_id = ? and user_id = ?`, title, content, time.Now().UTC().Unix(), noteID, userID)
	if err != nil {
		return fmt.Errorf("unable to update note %v, cause %w", noteID, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update note %v, cause %w", noteID, err)
	}
	if count == 0 {
		return NoteNotFound{ID: noteID}
	}
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, userID, noteID int64) error {
	res, err := s.db.ExecContext(ctx, `delete from notes where note_id = ? and user_id = ?`, noteID, userID)
	if err != nil {
		return fmt.Errorf("unable to delete note %v, cause %w", noteID, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete note %v, cause %w", noteID, err)
	}
	if count == 0 {
		return NoteNotFound{ID: noteID}
	}
	return nil
}

func (s *Store) CountNotes(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `select count(*) from notes where user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unable to count notes of user %v, cause %w", userID, err)
	}
	return count, nil
}
