package repository

import (
	"fmt"
	"sync"
	"testing"

	"futures-pnl-bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_GetOrCreate(t *testing.T) {
	repo := NewSessionRepository()

	session := repo.GetOrCreate("user-1")
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, model.StateIdle, session.State)

	// Second call returns the stored record, not a fresh one.
	session.State = model.StateAwaitingBTCSide
	repo.Save(session)

	again := repo.GetOrCreate("user-1")
	assert.Equal(t, model.StateAwaitingBTCSide, again.State)
}

func TestSessionRepository_SaveReplacesWholeRecord(t *testing.T) {
	repo := NewSessionRepository()

	session := model.NewSession("user-1")
	session.State = model.StateMonitoring
	session.TargetProfit = 100
	repo.Save(session)

	// Mutating the local copy after save must not leak into the store.
	session.TargetProfit = 9999

	stored, ok := repo.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, 100.0, stored.TargetProfit)
}

func TestSessionRepository_GetAllByStateSnapshots(t *testing.T) {
	repo := NewSessionRepository()

	for i := 0; i < 3; i++ {
		session := model.NewSession(fmt.Sprintf("monitoring-%d", i))
		session.State = model.StateMonitoring
		repo.Save(session)
	}
	idle := model.NewSession("idle-user")
	repo.Save(idle)

	snapshot := repo.GetAllByState(model.StateMonitoring)
	assert.Len(t, snapshot, 3)

	// Transitions after the snapshot don't affect it.
	changed, _ := repo.Get("monitoring-0")
	changed.State = model.StateIdle
	repo.Save(changed)

	for _, session := range snapshot {
		assert.Equal(t, model.StateMonitoring, session.State)
	}
	assert.Len(t, repo.GetAllByState(model.StateMonitoring), 2)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewSessionRepository()
	repo.Save(model.NewSession("user-1"))

	repo.Delete("user-1")

	_, ok := repo.Get("user-1")
	assert.False(t, ok)
}

func TestSessionRepository_ConcurrentReadersAndWriters(t *testing.T) {
	repo := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		userID := fmt.Sprintf("user-%d", i%4)

		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				session := repo.GetOrCreate(id)
				session.State = model.StateMonitoring
				session.TargetProfit = float64(j)
				repo.Save(session)
			}
		}(userID)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for _, session := range repo.GetAllByState(model.StateMonitoring) {
					// Readers always observe a whole record.
					assert.Equal(t, model.StateMonitoring, session.State)
					assert.NotEmpty(t, session.UserID)
				}
			}
		}()
	}
	wg.Wait()
}
