package input

import (
	"sort"
	"sync"

	"github.com/dshills/termkeys/internal/input/key"
)

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// Hook allows interception and observation of inserted text.
type Hook interface {
	// PreInsert is called before routing a text unit.
	// Return true to consume the text (no routing happens).
	PreInsert(text string, mods key.Modifier) bool

	// PostInsert is called after a text unit has been handled.
	PostInsert(out Outcome)
}

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages hooks with priorities and named registration.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{
		hooks:   make([]HookRegistration, 0),
		sorted:  true,
		enabled: true,
	}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithOptions adds a hook with a name and priority.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hooks {
		if m.hooks[i].ID == id {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// UnregisterByName removes the first hook registered under name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hooks {
		if m.hooks[i].Name == name {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether hooks are enabled.
func (m *HookManager) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// snapshot returns the hooks in priority order, or nil when disabled.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	if !m.sorted {
		sort.SliceStable(m.hooks, func(i, j int) bool {
			return m.hooks[i].Priority < m.hooks[j].Priority
		})
		m.sorted = true
	}

	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreInsert runs PreInsert hooks in priority order.
// Returns true if any hook consumed the text.
func (m *HookManager) RunPreInsert(text string, mods key.Modifier) bool {
	for _, hook := range m.snapshot() {
		if hook.PreInsert(text, mods) {
			return true
		}
	}
	return false
}

// RunPostInsert runs PostInsert hooks in priority order.
func (m *HookManager) RunPostInsert(out Outcome) {
	for _, hook := range m.snapshot() {
		hook.PostInsert(out)
	}
}

// FuncHook wraps functions into a Hook implementation.
type FuncHook struct {
	PreInsertFunc  func(text string, mods key.Modifier) bool
	PostInsertFunc func(out Outcome)
}

// PreInsert calls PreInsertFunc if set.
func (h FuncHook) PreInsert(text string, mods key.Modifier) bool {
	if h.PreInsertFunc != nil {
		return h.PreInsertFunc(text, mods)
	}
	return false
}

// PostInsert calls PostInsertFunc if set.
func (h FuncHook) PostInsert(out Outcome) {
	if h.PostInsertFunc != nil {
		h.PostInsertFunc(out)
	}
}
