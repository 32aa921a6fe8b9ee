package session

import (
	"net/http"
	"sync"
	"time"
)

// CookieName carries the session id between requests.
const CookieName = "praxis_session"

// Store keeps the live sessions in memory, keyed by session id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store. Sessions idle longer than ttl are
// dropped opportunistically on access.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session with the given id, or nil. An expired session
// is removed here rather than lingering until the next Sweep.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.sessions[id]
	if s != nil && time.Since(s.CreatedAt) > st.ttl {
		delete(st.sessions, id)
		return nil
	}
	return s
}

// Create registers a fresh session.
func (st *Store) Create() *Session {
	s := New()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// FromRequest resolves the request's session from its cookie, creating
// one (and setting the cookie) when absent or expired.
func (st *Store) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if s := st.Get(cookie.Value); s != nil {
			return s
		}
	}

	s := st.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Sweep removes sessions older than the ttl. The server calls this
// periodically; a session's datasets go with it.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.CreatedAt) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
