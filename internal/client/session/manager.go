package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/postit/internal/client/models"
	repo "github.com/dmitrijs2005/postit/internal/client/repositories/session"
	"github.com/dmitrijs2005/postit/internal/dbx"
	"github.com/dmitrijs2005/postit/internal/logging"
)

// Manager is the persistent Store. Reads are served from memory; every
// mutation is written through to the database before memory is updated, so
// a failed write leaves the previous session in place.
type Manager struct {
	db  *sql.DB
	log logging.Logger

	mu sync.RWMutex
	s  Session
}

// NewManager binds a Manager to an already migrated database. Call Load to
// restore a session persisted by a previous run.
func NewManager(db *sql.DB, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{db: db, log: log.With("component", "session")}
}

func (m *Manager) repo(tx dbx.DBTX) repo.Repository {
	return repo.NewSQLiteRepository(tx)
}

// Load restores the persisted session. A stored profile that cannot be
// decoded invalidates the whole session, which is then cleared.
func (m *Manager) Load(ctx context.Context) (Session, error) {
	values, err := m.repo(m.db).List(ctx)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		AccessToken:  string(values[KeyAccessToken]),
		RefreshToken: string(values[KeyRefreshToken]),
	}

	if raw := values[KeyUser]; len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			m.log.Warn(ctx, "stored user profile is corrupt, clearing session", "error", err)
			if err := m.Clear(ctx); err != nil {
				return Session{}, err
			}
			return Session{}, nil
		}
		s.User = &u
	}

	m.mu.Lock()
	m.s = s
	m.mu.Unlock()

	return m.Snapshot(), nil
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.AccessToken
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.RefreshToken
}

func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneUser(m.s.User)
}

func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Session{AccessToken: m.s.AccessToken, RefreshToken: m.s.RefreshToken, User: cloneUser(m.s.User)}
}

func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// Save writes all three keys in one transaction.
func (m *Manager) Save(ctx context.Context, s Session) error {
	var user []byte
	if s.User != nil {
		b, err := json.Marshal(s.User)
		if err != nil {
			return fmt.Errorf("encode user profile: %w", err)
		}
		user = b
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := m.repo(tx)
		if err := r.Set(ctx, KeyAccessToken, []byte(s.AccessToken)); err != nil {
			return err
		}
		if err := r.Set(ctx, KeyRefreshToken, []byte(s.RefreshToken)); err != nil {
			return err
		}
		if user == nil {
			return r.Delete(ctx, KeyUser)
		}
		return r.Set(ctx, KeyUser, user)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	m.s = Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, User: cloneUser(s.User)}
	return nil
}

func (m *Manager) SetAccessToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo(m.db).Set(ctx, KeyAccessToken, []byte(token)); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	m.s.AccessToken = token
	return nil
}

func (m *Manager) SetUser(ctx context.Context, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo(m.db).Set(ctx, KeyUser, b); err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}
	m.s.User = &u
	return nil
}

// Clear empties the session table in a single statement, so the three keys
// and anything an older build left behind go together.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo(m.db).Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	m.s = Session{}
	return nil
}
