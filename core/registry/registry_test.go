package registry

import (
	"strings"
	"sync"
	"testing"
)

func TestRoleSetAllows(t *testing.T) {
	tests := []struct {
		name string
		set  RoleSet
		role Role
		want bool
	}{
		{"nil set is unrestricted", nil, "user", true},
		{"empty set is unrestricted", NewRoleSet(), "user", true},
		{"member allowed", NewRoleSet("admin"), "admin", true},
		{"non-member denied", NewRoleSet("admin"), "user", false},
		{"empty role denied by restricted set", NewRoleSet("admin"), "", false},
		{"wildcard admits anyone", NewRoleSet(Wildcard), "anybody", true},
		{"wildcard admits empty role", NewRoleSet("admin", Wildcard), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.Allows(tt.role); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestRolesForDefaultsUnrestricted(t *testing.T) {
	s := NewSettings()
	s.Touch("posts")

	if set := s.RolesFor("posts", ActionDestroy); set != nil {
		t.Errorf("undeclared action should be unrestricted, got %v", set)
	}
	if set := s.RolesFor("unknown", ActionShow); set != nil {
		t.Errorf("unknown resource should be unrestricted, got %v", set)
	}
}

func TestAllowWidens(t *testing.T) {
	s := NewSettings()
	s.Allow("posts", ActionDestroy, "admin")
	s.Allow("posts", ActionDestroy, "owner")

	set := s.RolesFor("posts", ActionDestroy)
	if !set.Allows("admin") || !set.Allows("owner") {
		t.Errorf("both roles should be allowed, got %v", set)
	}
	if set.Allows("user") {
		t.Error("undeclared role should be denied")
	}
}

func TestRolesForRelFallsBackToResource(t *testing.T) {
	s := NewSettings()
	s.Allow("posts", ActionFetch, "member")

	// No relationship-level entry: resource-level restriction applies.
	set := s.RolesForRel("posts", RelToMany, "comments", ActionFetch)
	if set.Allows("stranger") {
		t.Error("resource-level restriction should cover the relationship")
	}
	if !set.Allows("member") {
		t.Error("member should be allowed via resource-level entry")
	}

	// A relationship-level entry overrides the resource-level one.
	s.AllowRel("posts", RelToMany, "comments", ActionFetch, "reviewer")
	set = s.RolesForRel("posts", RelToMany, "comments", ActionFetch)
	if !set.Allows("reviewer") {
		t.Error("reviewer should be allowed via relationship entry")
	}
	if set.Allows("member") {
		t.Error("relationship entry should shadow the resource entry")
	}
}

func TestSideloadAllowed(t *testing.T) {
	s := NewSettings()
	s.AllowSideload("comments", "comments", "posts")

	if !s.SideloadAllowed("comments", "comments", "posts") {
		t.Error("declared sideload should be allowed")
	}
	if s.SideloadAllowed("comments", "comments", "people") {
		t.Error("undeclared parent should be denied")
	}
	if s.SideloadAllowed("comments", "tags", "posts") {
		t.Error("undeclared child should be denied")
	}
	if s.SideloadAllowed("unknown", "comments", "posts") {
		t.Error("unknown resource should be denied")
	}
}

func TestHandlerSet(t *testing.T) {
	s := NewSettings()
	s.RegisterHandler("posts", HandlerKey(ActionShow))
	s.RegisterHandler("posts", RelHandlerKey(RelToOne, "author", ActionPluck))

	if !s.HasHandler("posts", HandlerKey(ActionShow)) {
		t.Error("registered handler should be found")
	}
	if s.HasHandler("posts", HandlerKey(ActionDestroy)) {
		t.Error("unregistered handler should not be found")
	}
	if !s.HasHandler("posts", RelHandlerKey(RelToOne, "author", ActionPluck)) {
		t.Error("relationship handler should be found")
	}
	if s.HasHandler("posts", RelHandlerKey(RelToOne, "author", ActionGraft)) {
		t.Error("unregistered relationship handler should not be found")
	}
}

func TestFreezePanicsOnMutation(t *testing.T) {
	mutations := map[string]func(*Settings){
		"Touch":           func(s *Settings) { s.Touch("posts") },
		"Allow":           func(s *Settings) { s.Allow("posts", ActionShow, "admin") },
		"AllowRel":        func(s *Settings) { s.AllowRel("posts", RelToOne, "author", ActionPluck, "admin") },
		"AllowSideload":   func(s *Settings) { s.AllowSideload("posts", "comments", "posts") },
		"RegisterHandler": func(s *Settings) { s.RegisterHandler("posts", "show") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			s := NewSettings()
			s.Touch("posts")
			s.Freeze()

			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("mutation after freeze should panic")
				}
				if !strings.Contains(r.(string), "frozen") {
					t.Errorf("panic message %q should mention frozen", r)
				}
			}()
			mutate(s)
		})
	}
}

func TestFrozenReadsAreConcurrencySafe(t *testing.T) {
	s := NewSettings()
	s.Allow("posts", ActionDestroy, "admin")
	s.AllowSideload("comments", "comments", "posts")
	s.RegisterHandler("posts", HandlerKey(ActionShow))
	s.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.RolesFor("posts", ActionDestroy).Allows("admin")
				s.SideloadAllowed("comments", "comments", "posts")
				s.HasHandler("posts", HandlerKey(ActionShow))
			}
		}()
	}
	wg.Wait()

	if !s.Frozen() {
		t.Error("settings should remain frozen")
	}
}
