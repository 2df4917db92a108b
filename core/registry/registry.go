// Package registry holds the process-wide declaration state: the role
// table, the sideload table, and the registered-handler set, keyed by
// canonical resource name. State is written during the declaration
// phase, frozen once, and read lock-free thereafter.
package registry

import (
	"fmt"
	"sync"
)

// Action identifies a handler responsibility. An Action is meaningful
// only in the context of a resource name (and optionally a relationship).
type Action string

// Resource-level actions.
const (
	ActionIndex   Action = "index"
	ActionShow    Action = "show"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Relationship-level actions.
const (
	ActionPluck    Action = "pluck"
	ActionPrune    Action = "prune"
	ActionGraft    Action = "graft"
	ActionFetch    Action = "fetch"
	ActionMerge    Action = "merge"
	ActionSubtract Action = "subtract"
)

// Role is an opaque, comparable caller identity class.
type Role string

// Wildcard matches any role, including the empty one.
const Wildcard Role = "*"

// RoleSet is a set of roles allowed to perform an action. A nil or
// empty set means the action is unrestricted.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Allows reports whether the given role may act. Empty sets are
// unrestricted; the wildcard admits everyone.
func (s RoleSet) Allows(role Role) bool {
	if len(s) == 0 {
		return true
	}
	if _, ok := s[Wildcard]; ok {
		return true
	}
	_, ok := s[role]
	return ok
}

// RelKind distinguishes to-one from to-many relationships in the role table.
type RelKind string

// Relationship kinds.
const (
	RelToOne  RelKind = "has-one"
	RelToMany RelKind = "has-many"
)

// resourceEntry holds all declaration state for one canonical resource name.
type resourceEntry struct {
	// actions maps resource-level actions to allowed roles.
	actions map[Action]RoleSet

	// rels maps relationship kind -> relationship name -> action -> roles.
	rels map[RelKind]map[string]map[Action]RoleSet

	// sideloads maps a child resource name to the parent resource
	// names permitted to embed it.
	sideloads map[string]map[string]struct{}

	// handlers is the set of registered handler keys for this resource.
	handlers map[string]struct{}
}

func newResourceEntry() *resourceEntry {
	return &resourceEntry{
		actions:   make(map[Action]RoleSet),
		rels:      make(map[RelKind]map[string]map[Action]RoleSet),
		sideloads: make(map[string]map[string]struct{}),
		handlers:  make(map[string]struct{}),
	}
}

// Settings owns the role table, sideload table, and handler set. It is
// mutable until Freeze is called; afterwards every mutation panics.
// Reads after freeze are safe under arbitrary concurrent requests.
type Settings struct {
	mu      sync.RWMutex
	frozen  bool
	entries map[string]*resourceEntry
}

// NewSettings creates an empty, unfrozen Settings.
func NewSettings() *Settings {
	return &Settings{entries: make(map[string]*resourceEntry)}
}

// Freeze makes the settings immutable. There is no unfreeze.
func (s *Settings) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *Settings) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Touch forces creation of the entry for a resource name so later
// lookups never face a missing key. It panics after freeze.
func (s *Settings) Touch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustMutable("touch resource %q", name)
	s.entry(name)
}

// entry returns the entry for name, creating it lazily. Creation only
// happens during the declaration phase; callers hold the write lock.
func (s *Settings) entry(name string) *resourceEntry {
	e, ok := s.entries[name]
	if !ok {
		e = newResourceEntry()
		s.entries[name] = e
	}
	return e
}

func (s *Settings) mustMutable(format string, args ...any) {
	if s.frozen {
		panic(fmt.Sprintf("registry: settings frozen, cannot "+format, args...))
	}
}

// Allow restricts a resource-level action to the given roles. Calling
// it again for the same action widens the set.
func (s *Settings) Allow(name string, action Action, roles ...Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustMutable("allow %s on %q", action, name)

	e := s.entry(name)
	if e.actions[action] == nil {
		e.actions[action] = make(RoleSet)
	}
	for _, r := range roles {
		e.actions[action][r] = struct{}{}
	}
}

// AllowRel restricts a relationship-level action to the given roles.
func (s *Settings) AllowRel(name string, kind RelKind, rel string, action Action, roles ...Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustMutable("allow %s on %q %s %q", action, name, kind, rel)

	e := s.entry(name)
	if e.rels[kind] == nil {
		e.rels[kind] = make(map[string]map[Action]RoleSet)
	}
	if e.rels[kind][rel] == nil {
		e.rels[kind][rel] = make(map[Action]RoleSet)
	}
	if e.rels[kind][rel][action] == nil {
		e.rels[kind][rel][action] = make(RoleSet)
	}
	for _, r := range roles {
		e.rels[kind][rel][action][r] = struct{}{}
	}
}

// AllowSideload records that child may be embedded under each of the
// given parent resource names when serving requests for name.
func (s *Settings) AllowSideload(name, child string, parents ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustMutable("allow sideload of %q under %q", child, name)

	e := s.entry(name)
	if e.sideloads[child] == nil {
		e.sideloads[child] = make(map[string]struct{})
	}
	for _, p := range parents {
		e.sideloads[child][p] = struct{}{}
	}
}

// RegisterHandler records that a handler responsive to key exists for
// the resource. Keys are built with HandlerKey and RelHandlerKey.
func (s *Settings) RegisterHandler(name, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustMutable("register handler %q on %q", key, name)
	e := s.entry(name)
	e.handlers[key] = struct{}{}
}

// HandlerKey builds the handler-set key for a resource-level action.
func HandlerKey(action Action) string {
	return string(action)
}

// RelHandlerKey builds the handler-set key for a relationship action.
func RelHandlerKey(kind RelKind, rel string, action Action) string {
	return string(kind) + ":" + rel + ":" + string(action)
}

// RolesFor returns the role set governing a resource-level action.
// A nil result means unrestricted.
func (s *Settings) RolesFor(name string, action Action) RoleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return nil
	}
	return e.actions[action]
}

// RolesForRel returns the role set governing a relationship action.
// When no relationship-level entry exists, the resource-level entry for
// the same action applies, so a blanket restriction covers the
// resource's relationships unless explicitly overridden.
func (s *Settings) RolesForRel(name string, kind RelKind, rel string, action Action) RoleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return nil
	}
	if byRel, ok := e.rels[kind]; ok {
		if byAction, ok := byRel[rel]; ok {
			if set, ok := byAction[action]; ok {
				return set
			}
		}
	}
	return e.actions[action]
}

// SideloadAllowed reports whether child may be embedded under parent
// when serving requests for name.
func (s *Settings) SideloadAllowed(name, child, parent string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	parents, ok := e.sideloads[child]
	if !ok {
		return false
	}
	_, ok = parents[parent]
	return ok
}

// HasHandler reports whether a handler responsive to key is registered
// for the resource.
func (s *Settings) HasHandler(name, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return false
	}
	_, ok = e.handlers[key]
	return ok
}

// Resources returns the canonical names of all declared resources.
func (s *Settings) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
