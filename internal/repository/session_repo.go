package repository

import (
	"sync"

	"futures-pnl-bot/internal/model"
)

// SessionRepository is the process-wide session store. Sessions are stored and
// returned by value: a Save replaces the whole record atomically, so the
// monitor cycle iterating concurrently with the chat handler sees either the
// pre- or post-update session, never a partial write.
type SessionRepository interface {
	Get(userID string) (model.Session, bool)
	GetOrCreate(userID string) model.Session
	Save(session model.Session)
	Delete(userID string)
	GetAllByState(state model.State) []model.Session
}

type inMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewSessionRepository() SessionRepository {
	return &inMemorySessionRepository{
		sessions: make(map[string]model.Session),
	}
}

func (r *inMemorySessionRepository) Get(userID string) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[userID]
	return session, ok
}

func (r *inMemorySessionRepository) GetOrCreate(userID string) model.Session {
	if session, ok := r.Get(userID); ok {
		return session
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Lost the race to another writer, keep their record.
	if session, ok := r.sessions[userID]; ok {
		return session
	}

	session := model.NewSession(userID)
	r.sessions[userID] = session
	return session
}

func (r *inMemorySessionRepository) Save(session model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.UserID] = session
}

func (r *inMemorySessionRepository) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
}

// GetAllByState snapshots every session in the given state at call time.
// Sessions mutated after the snapshot keep their pre-snapshot values in the
// returned slice.
func (r *inMemorySessionRepository) GetAllByState(state model.State) []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Session
	for _, session := range r.sessions {
		if session.State == state {
			result = append(result, session)
		}
	}
	return result
}
