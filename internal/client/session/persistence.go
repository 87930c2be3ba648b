package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mailadmin/internal/client/models"
	"github.com/dmitrijs2005/mailadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/mailadmin/internal/dbx"
)

// Persistence is the durable copy of the session. Load returns an empty
// token when nothing is stored.
type Persistence interface {
	Save(ctx context.Context, token string, user *models.User) error
	Load(ctx context.Context) (string, *models.User, error)
	Clear(ctx context.Context) error
}

// SQLitePersistence keeps the session in the local metadata table.
type SQLitePersistence struct {
	db *sql.DB
}

func NewSQLitePersistence(db *sql.DB) *SQLitePersistence {
	return &SQLitePersistence{db: db}
}

// Save writes token and user in one transaction so a reader never sees a
// token paired with another account's user.
func (p *SQLitePersistence) Save(ctx context.Context, token string, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyUser, userJSON)
	})
}

func (p *SQLitePersistence) Load(ctx context.Context) (string, *models.User, error) {
	repo := metadata.NewSQLiteRepository(p.db)

	token, err := repo.Get(ctx, metadata.KeyToken)
	if err != nil {
		return "", nil, err
	}
	if len(token) == 0 {
		return "", nil, nil
	}

	raw, err := repo.Get(ctx, metadata.KeyUser)
	if err != nil {
		return "", nil, err
	}
	var user *models.User
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &user); err != nil {
			// a corrupt user record does not invalidate the token
			user = nil
		}
	}
	return string(token), user, nil
}

func (p *SQLitePersistence) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(p.db).Delete(ctx, metadata.KeyToken, metadata.KeyUser)
}

// MemoryPersistence is a process-local Persistence, used by tests and by
// the one-shot commands when no session file is configured.
type MemoryPersistence struct {
	mu    sync.Mutex
	token string
	user  *models.User
}

func (m *MemoryPersistence) Save(_ context.Context, token string, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = token, user
	return nil
}

func (m *MemoryPersistence) Load(context.Context) (string, *models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.user, nil
}

func (m *MemoryPersistence) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.user = "", nil
	return nil
}
