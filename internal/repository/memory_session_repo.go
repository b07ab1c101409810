package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/deskmate/internal/model"
)

// MemorySessionRepo はインメモリのSessionRepository実装。
// セッションは永続スロットには保存しない。プロセス再起動で全セッションが
// 失効するが、メール再提示でサインインし直せるため許容する。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
	}
}

// Create はセッションを保存する。
func (r *MemorySessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *session
	r.sessions[session.ID] = &s
	return nil
}

// FindByID は指定IDのセッションを返す。
// 期限切れのセッションはその場で破棄してnilを返す。
func (r *MemorySessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(session.ExpiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, nil
	}
	s := *session
	return &s, nil
}

// DeleteByID は指定IDのセッションを破棄する。
func (r *MemorySessionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
