package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sadopc/targetflow/internal/model"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// SaveSession persists the token and user profile, replacing any previous
// session. Called on login and signup success.
func (s *Store) SaveSession(token string, user model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, tokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if _, err := tx.Exec(upsert, userKey, string(payload)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return tx.Commit()
}

// LoadSession reads the persisted session. An absent session is not an
// error: ok is false and the caller starts anonymous.
func (s *Store) LoadSession() (token string, user model.User, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, tokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.User{}, false, nil
	}
	if err != nil {
		return "", model.User{}, false, fmt.Errorf("load token: %w", err)
	}

	var payload string
	err = s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, userKey).Scan(&payload)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", model.User{}, false, fmt.Errorf("load user: %w", err)
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &user); err != nil {
			return "", model.User{}, false, fmt.Errorf("decode user: %w", err)
		}
	}
	return token, user, true, nil
}

// UpdateUser replaces the persisted profile; the token is untouched.
// Called after a profile patch round-trip.
func (s *Store) UpdateUser(user model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		userKey, string(payload),
	)
	return err
}

// ClearSession removes the persisted token and user. Called on logout.
func (s *Store) ClearSession() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return err
}
