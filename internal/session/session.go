// Package session holds the sources of the bearer token the api client
// attaches to its requests.
package session

import (
	"context"
	"os"
	"strings"
	"sync"
)

const DefaultTokenEnvVar = "CHIZEN_TOKEN"

// Static always returns the same token; an empty one means no session.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) CurrentToken(_ context.Context) (string, bool, error) {
	return s.token, s.token != "", nil
}

// Env reads the token from an env var on every call.
type Env struct {
	varName string
}

func NewEnv(varName string) *Env {
	if varName == "" {
		varName = DefaultTokenEnvVar
	}
	return &Env{varName: varName}
}

func (e *Env) CurrentToken(_ context.Context) (string, bool, error) {
	token := strings.TrimSpace(os.Getenv(e.varName))
	return token, token != "", nil
}

// Memory holds a token set at runtime, e.g. after a login.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CurrentToken(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != "", nil
}

func (m *Memory) Store(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.token != ""
	m.token = ""
	return had, nil
}
