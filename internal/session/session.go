// Package session holds the bearer credential for the running client and
// optionally persists it in SQLite.
package session

import "sync"

// Store holds the current credential in process memory.
//
// Every SetCredential and ClearCredential advances Generation. Asynchronous
// work captures the generation it started under and its result is discarded
// when the generation has since moved on.
type Store struct {
	mu         sync.RWMutex
	credential string
	email      string
	generation uint64
}

// NewStore returns an anonymous Store.
func NewStore() *Store {
	return &Store{}
}

// SetCredential records a credential obtained for email.
func (s *Store) SetCredential(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = token
	s.email = email
	s.generation++
}

// ClearCredential drops the credential.
func (s *Store) ClearCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.email = ""
	s.generation++
}

// IsAuthenticated reports whether a non-empty credential is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

// Credential returns the bearer token, or "" when anonymous.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Email returns the address the credential was issued for.
func (s *Store) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Generation identifies the current session instance.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Current reports whether gen is still the live session instance.
func (s *Store) Current(gen uint64) bool {
	return s.Generation() == gen
}
