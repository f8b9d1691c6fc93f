// Package notebook stores user credentials and notes in a single
// sqlite database.
//
// The database is the authority for username uniqueness: concurrent
// registrations of the same name are resolved by the unique constraint
// on users.username, never by application-level locking.
package notebook

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// Store wraps the sqlite database which holds both the credential
	// records and the notes owned by them.
	Store struct {
		db *sql.DB
	}
)

func openNotebookDatabase(ctx context.Context, dir string) (*sql.DB, error) {
	dbfile := filepath.Join(dir, "notes.db")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory %v to store notebook, cause %w", dir, err)
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&_foreign_keys=on&mode=rwc", dbfile)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", dbfile, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping notebook %v, cause %w", dbfile, err)
	}
	return conn, nil
}

// Open loads (creating it if needed) the notebook database stored
// under the given directory.
func Open(ctx context.Context, dir string) (*Store, error) {
	conn, err := openNotebookDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init notebook %v, cause %w", dir, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			user_id integer not null primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			hashed_password text not null,
			password_salt text not null,
			created_at integer not null,
			last_login_at integer
		)`,
		`create index if not exists idx_users_username_hash64
			on users(username_hash64)
		`,
		`create table if not exists notes(
			note_id integer not null primary key autoincrement,
			user_id integer not null,
			title text not null,
			content text not null,
			updated_at integer not null,
			foreign key (user_id) references users(user_id)
		)`,
		`create index if not exists idx_notes_user_id
			on notes(user_id)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
