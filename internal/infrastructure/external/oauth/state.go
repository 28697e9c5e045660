package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/tubetext/tubetext/internal/infrastructure/cache"
)

// StateManager manages OAuth state tokens for CSRF protection. States are
// single use and expire on their own.
type StateManager struct {
	store      cache.Store
	expiration time.Duration
}

// NewStateManager creates a new state manager backed by the given store
func NewStateManager(store cache.Store) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 15 * time.Minute,
	}
}

// GenerateState generates a random state token and stores it
func (sm *StateManager) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.URLEncoding.EncodeToString(b)
	sm.store.Set(sm.key(state), "valid", sm.expiration)
	return state, nil
}

// ValidateState checks a state token and consumes it
func (sm *StateManager) ValidateState(state string) bool {
	value, exists := sm.store.Get(sm.key(state))
	if !exists || value != "valid" {
		return false
	}
	sm.store.Delete(sm.key(state))
	return true
}

func (sm *StateManager) key(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
