// Package session holds per-viewer state: the identity cell and the viewer's
// open price editor, if any.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/storeops-br/catalog-admin-api/internal/app/workflow"
	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

// Session is one viewing session. A new session starts as Admin; switching
// identity is a local mutation with no remote effect, observable immediately.
type Session struct {
	id string

	mu       sync.Mutex
	identity domain.Identity
	editor   *workflow.PriceEditor
	editorID int
}

func newSession(id string) *Session {
	return &Session{id: id, identity: domain.IdentityAdmin}
}

func (s *Session) ID() string { return s.id }

// Current returns the active identity.
func (s *Session) Current() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// SwitchTo replaces the active identity.
func (s *Session) SwitchTo(identity domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

// CanEditPrice reports whether the current identity may edit prices.
func (s *Session) CanEditPrice() bool {
	return s.Current() == domain.IdentityAdmin
}

// SetEditor binds an open price editor for the given product to the session.
// Any previous editor is discarded.
func (s *Session) SetEditor(productID int, e *workflow.PriceEditor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = e
	s.editorID = productID
}

// Editor returns the open editor bound to the given product id.
func (s *Session) Editor(productID int) (*workflow.PriceEditor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil || s.editorID != productID {
		return nil, false
	}
	return s.editor, true
}

// ClearEditor drops the session's editor.
func (s *Session) ClearEditor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = nil
	s.editorID = 0
}

// Registry keeps sessions keyed by id, creating them lazily.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it when id is empty or unknown.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			return s
		}
	} else {
		id = uuid.NewString()
	}

	s := newSession(id)
	r.sessions[id] = s
	return s
}
