package agent

import "sync"

// SessionKeys maps MCP session ids to the API key configured for that
// session. Keys live only in memory and are dropped when the session
// disconnects.
type SessionKeys struct {
	mu   sync.RWMutex
	keys map[string]string
}

func NewSessionKeys() *SessionKeys {
	return &SessionKeys{keys: make(map[string]string)}
}

func (s *SessionKeys) Set(sessionID, apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[sessionID] = apiKey
}

func (s *SessionKeys) Get(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[sessionID]
	return key, ok
}

func (s *SessionKeys) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, sessionID)
}
