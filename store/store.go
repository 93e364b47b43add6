// Package store maps channel ids to at most one active Coup session each and
// keeps a durable JSON snapshot per channel, so sessions survive a process
// restart. Timers and other live handles are not persisted; the bot layer
// reconstructs them on load.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mettlex/literally-discord-bot-sub000/coup"
	"github.com/mettlex/literally-discord-bot-sub000/gameerr"
)

// SessionStore is the per-channel Coup session registry. All access goes
// through the store's lock, which also serializes game mutations: every
// handler and timer callback re-fetches the session inside Update rather than
// trusting a reference captured before a suspension point.
type SessionStore struct {
	mu       sync.Mutex
	dir      string
	sessions map[string]*coup.Session
	probed   map[string]bool
	log      *logrus.Logger
}

// NewSessionStore creates a store persisting under dir (created if missing).
func NewSessionStore(dir string, log *logrus.Logger) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionStore{
		dir:      dir,
		sessions: make(map[string]*coup.Session),
		probed:   make(map[string]bool),
		log:      log,
	}, nil
}

func (st *SessionStore) path(channelID string) string {
	return filepath.Join(st.dir, "coup-"+channelID+".json")
}

// Get returns the session for a channel, transparently rehydrating from disk
// on the first access after a restart. Returns nil when no session exists.
func (st *SessionStore) Get(channelID string) *coup.Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.get(channelID)
}

// get assumes st.mu is held.
func (st *SessionStore) get(channelID string) *coup.Session {
	if s, ok := st.sessions[channelID]; ok {
		return s
	}
	if st.probed[channelID] {
		return nil
	}
	st.probed[channelID] = true

	data, err := os.ReadFile(st.path(channelID))
	if err != nil {
		if !os.IsNotExist(err) {
			st.log.WithFields(logrus.Fields{"tag": "store", "channel": channelID}).Errorln("reading session snapshot:", err)
		}
		return nil
	}
	var snap coup.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		st.log.WithFields(logrus.Fields{"tag": "store", "channel": channelID}).Errorln("parsing session snapshot:", err)
		return nil
	}
	s := coup.FromSnapshot(&snap)
	st.sessions[channelID] = s
	st.log.WithFields(logrus.Fields{"tag": "store", "channel": channelID}).Debugln("Session rehydrated from disk")
	return s
}

// Set installs or clears the session for a channel. A nil session removes
// both the in-memory entry and the backing file. Installing over an existing
// session is rejected so two games cannot interleave in one channel.
func (st *SessionStore) Set(channelID string, s *coup.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s == nil {
		delete(st.sessions, channelID)
		st.probed[channelID] = true
		if err := os.Remove(st.path(channelID)); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if st.get(channelID) != nil {
		return gameerr.ErrSessionExists
	}
	st.sessions[channelID] = s
	return st.persist(channelID, s)
}

// View runs fn against the channel's session under the store lock without
// persisting. fn receives nil when no session exists. fn must not retain the
// session past its return.
func (st *SessionStore) View(channelID string, fn func(*coup.Session)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(st.get(channelID))
}

// Update runs fn against the channel's current session under the store lock
// and writes the snapshot through afterwards. A finished session is cleared
// from memory and disk instead. fn's events are passed through even on error.
func (st *SessionStore) Update(channelID string, fn func(*coup.Session) ([]coup.Event, error)) ([]coup.Event, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.get(channelID)
	if s == nil {
		return nil, gameerr.ErrNoSession
	}
	events, err := fn(s)
	if err != nil {
		return events, err
	}
	if s.Finished() {
		delete(st.sessions, channelID)
		if rmErr := os.Remove(st.path(channelID)); rmErr != nil && !os.IsNotExist(rmErr) {
			st.log.WithFields(logrus.Fields{"tag": "store", "channel": channelID}).Errorln("removing finished session:", rmErr)
		}
		return events, nil
	}
	if pErr := st.persist(channelID, s); pErr != nil {
		// Persistence failures never interrupt gameplay.
		st.log.WithFields(logrus.Fields{"tag": "store", "channel": channelID}).Errorln("persisting session:", pErr)
	}
	return events, nil
}

// persist writes the snapshot atomically (temp file + rename). Assumes st.mu
// is held.
func (st *SessionStore) persist(channelID string, s *coup.Session) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	tmp := st.path(channelID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, st.path(channelID))
}

// ActiveCount returns the number of sessions currently held in memory.
func (st *SessionStore) ActiveCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
