// Package localsession keeps the CLI login on the local filesystem.
package localsession

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kirinyoku/cinemago/internal/clock"
	"github.com/kirinyoku/cinemago/internal/domain"
)

var (
	// ErrNoSession is returned when nobody is logged in.
	ErrNoSession = errors.New("not logged in")

	// ErrSessionExpired is returned when the stored login was idle too long
	// or its token expired. The record is removed.
	ErrSessionExpired = errors.New("session expired")
)

const fileName = "session.json"

// Store reads and writes a single session record.
type Store struct {
	path string
	idle time.Duration
	clk  clock.Clock
}

// NewStore creates the store directory with 0700 permissions.
// If dir is empty, uses ~/.cinemago/
func NewStore(dir string, idle time.Duration, clk clock.Clock) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".cinemago")
	}
	if clk == nil {
		clk = clock.Real{}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &Store{
		path: filepath.Join(dir, fileName),
		idle: idle,
		clk:  clk,
	}, nil
}

func (s *Store) Path() string { return s.path }

// Save writes the record atomically with 0600 permissions.
func (s *Store) Save(sess *domain.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load returns the stored session. An idle or token-expired record is
// cleared and reported as ErrSessionExpired.
func (s *Store) Load() (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.AccessToken == "" {
		// A damaged record is as good as none.
		_ = s.Clear()
		return nil, ErrNoSession
	}

	if sess.Expired(s.clk.Now(), s.idle) {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Touch loads the session and records activity now.
func (s *Store) Touch() (*domain.Session, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}

	sess.LastActivityAt = s.clk.Now()
	if err := s.Save(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
