// Package tokencache keeps the hotel API access token in process memory.
package tokencache

import (
	"context"
	"sync"
	"time"
)

type Memory struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(_ context.Context, now time.Time) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || !now.Before(m.expiresAt) {
		return "", false
	}
	return m.token, true
}

func (m *Memory) Set(_ context.Context, token string, expiresAt time.Time) {
	m.mu.Lock()
	m.token, m.expiresAt = token, expiresAt
	m.mu.Unlock()
}
