// Package session holds the per-session interactive state: the current
// navigation page, the datasets of the latest uploads, the user's filter
// selections and category overrides.
//
// State lives in memory only. It survives re-renders of the UI but not a
// restart of the process, and a new upload replaces the corresponding
// dataset wholesale.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"praxiscli/internal/classify"
	"praxiscli/pkg/contracts/domain"
)

// Page is one state of the navigation machine.
type Page string

const (
	// PageHome is the landing page
	PageHome Page = "home"
	// PageBilling is the invoice/liquidity module
	PageBilling Page = "billing"
	// PagePhysicians is the physician revenue module
	PagePhysicians Page = "physicians"
	// PageTariffs is the tariff analysis module
	PageTariffs Page = "tariffs"
)

// ParsePage validates a navigation target. Transitions happen only
// through explicit navigation actions, and every page is reachable from
// every other one.
func ParsePage(s string) (Page, bool) {
	switch Page(s) {
	case PageHome, PageBilling, PagePhysicians, PageTariffs:
		return Page(s), true
	}
	return "", false
}

// Selections is the per-module filter state of the UI controls.
type Selections struct {
	Categories          []string `json:"categories,omitempty"`
	Codes               []string `json:"codes,omitempty"`
	Providers           []string `json:"providers,omitempty"`
	Insurers            []string `json:"insurers,omitempty"`
	LawTypes            []string `json:"law_types,omitempty"`
	IncludeCurrentMonth bool     `json:"include_current_month"`
}

// Session is the state of one interactive session. All access goes
// through the methods; the mutex guards against concurrent HTTP handlers
// touching the same session.
type Session struct {
	mu sync.RWMutex

	ID        string
	CreatedAt time.Time

	page       Page
	selections Selections
	overrides  classify.Overrides

	tariffs    *domain.TariffDataset
	billing    *domain.BillingDataset
	physicians *domain.PhysicianDataset
}

// New creates a session on the home page with current-month inclusion on.
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		page:      PageHome,
		selections: Selections{
			IncludeCurrentMonth: true,
		},
		overrides: make(classify.Overrides),
	}
}

// Page returns the active page.
func (s *Session) Page() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Navigate moves to another page.
func (s *Session) Navigate(p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

// Selections returns a copy of the current filter state.
func (s *Session) Selections() Selections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selections
}

// SetSelections replaces the filter state.
func (s *Session) SetSelections(sel Selections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = sel
}

// Overrides returns a copy of the code to category override map.
func (s *Session) Overrides() classify.Overrides {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(classify.Overrides, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

// SetOverride records one code to category override.
func (s *Session) SetOverride(code string, cat domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[code] = cat
}

// ClearOverride removes one override, returning the code to the rule
// engine.
func (s *Session) ClearOverride(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, code)
}

// Tariffs returns the current tariff dataset, or nil before any upload.
func (s *Session) Tariffs() *domain.TariffDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tariffs
}

// SetTariffs replaces the tariff dataset, discarding the previous one.
func (s *Session) SetTariffs(d *domain.TariffDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tariffs = d
}

// Billing returns the current billing dataset, or nil before any upload.
func (s *Session) Billing() *domain.BillingDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.billing
}

// SetBilling replaces the billing dataset.
func (s *Session) SetBilling(d *domain.BillingDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billing = d
}

// Physicians returns the current physician dataset, or nil before any
// upload.
func (s *Session) Physicians() *domain.PhysicianDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.physicians
}

// SetPhysicians replaces the physician dataset.
func (s *Session) SetPhysicians(d *domain.PhysicianDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.physicians = d
}
