package notebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
)

type (
	// User is a credential record. HashedPassword and PasswordSalt are
	// base64 encoded and only ever written together: the salt is
	// generated once at registration and never changes without the
	// password changing with it.
	User struct {
		ID             int64
		Username       string
		HashedPassword string
		PasswordSalt   string
		CreatedAt      time.Time
		LastLoginAt    time.Time
	}
)

func usernameHash(username string) int64 {
	return int64(xxhash.Sum64String(username))
}

// CreateUser persists a new credential record. The username must
// already be normalized by the caller. A unique-constraint violation
// surfaces as UsernameTaken, which is how a registration race resolves.
func (s *Store) CreateUser(ctx context.Context, username, hashedPassword, passwordSalt string) (User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `insert into users (username, username_hash64, hashed_password, password_salt, created_at) values (?, ?, ?, ?, ?)`,
		username, usernameHash(username), hashedPassword, passwordSalt, now.Unix())
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return User{}, UsernameTaken{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to store user in notebook, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("unable to read id of new user, cause %w", err)
	}
	return User{
		ID:             id,
		Username:       username,
		HashedPassword: hashedPassword,
		PasswordSalt:   passwordSalt,
		CreatedAt:      now,
	}, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx, `select user_id, username, hashed_password, password_salt, created_at, last_login_at
	from users where username_hash64 = ? and username = ?`, usernameHash(username), username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user %v from notebook, cause %w", username, err)
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `select user_id, username, hashed_password, password_salt, created_at, last_login_at
	from users where user_id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{ID: id}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user %v from notebook, cause %w", id, err)
	}
	return u, nil
}

// TouchLastLogin records a successful login against the record.
func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `update users set last_login_at = ? where user_id = ?`, time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("unable to update last login of user %v, cause %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to update last login of user %v, cause %w", id, err)
	}
	if count == 0 {
		return UserNotFound{ID: id}
	}
	return nil
}

// DeleteUser removes the credential record and every note it owns in a
// single transaction.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, `delete from notes where user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete notes of user %v, cause %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `delete from users where user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	if count == 0 {
		return UserNotFound{ID: id}
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("unable to delete user %v, cause %w", id, err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scannable) (User, error) {
	var u User
	var createdAt int64
	var lastLoginAt sql.NullInt64
	err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.PasswordSalt, &createdAt, &lastLoginAt)
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	if lastLoginAt.Valid {
		u.LastLoginAt = time.Unix(lastLoginAt.Int64, 0).UTC()
	}
	return u, nil
}
