package storage

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a setting does not exist.
var ErrNotFound = errors.New("setting not found")

// GetSetting returns the value stored under key.
func (s *Storage) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Storage) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	return err
}

// DeleteSetting removes key. Deleting a missing key is not an error.
func (s *Storage) DeleteSetting(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// ListSettings returns every setting whose key starts with prefix.
func (s *Storage) ListSettings(prefix string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT key, value FROM settings WHERE substr(key, 1, length(?)) = ? ORDER BY key",
		prefix, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value.String
	}
	return settings, rows.Err()
}

// ClearPrefix deletes every setting whose key starts with prefix and
// returns how many were removed. Keys owned by other prefixes are untouched.
func (s *Storage) ClearPrefix(prefix string) (int64, error) {
	if prefix == "" {
		return 0, errors.New("refusing to clear settings with an empty prefix")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM settings WHERE substr(key, 1, length(?)) = ?", prefix, prefix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
