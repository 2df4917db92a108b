package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/declarest/declarest/core/convention"
)

// aclFile is the on-disk shape of an access declaration:
//
//	resources:
//	  posts:
//	    actions:
//	      destroy: [admin]
//	      update: [admin, editor]
//	    has-one:
//	      author:
//	        graft: [editor]
//	    has-many:
//	      comments:
//	        fetch: [member]
//	    sideloads:
//	      comments: [posts]
type aclFile struct {
	Resources map[string]aclResource `yaml:"resources"`
}

type aclResource struct {
	Actions   map[string][]string            `yaml:"actions"`
	HasOne    map[string]map[string][]string `yaml:"has-one"`
	HasMany   map[string]map[string][]string `yaml:"has-many"`
	Sideloads map[string][]string            `yaml:"sideloads"`
}

var knownActions = map[Action]struct{}{
	ActionIndex:    {},
	ActionShow:     {},
	ActionCreate:   {},
	ActionUpdate:   {},
	ActionDestroy:  {},
	ActionPluck:    {},
	ActionPrune:    {},
	ActionGraft:    {},
	ActionFetch:    {},
	ActionMerge:    {},
	ActionSubtract: {},
}

// LoadACL populates the role and sideload tables from a YAML access
// declaration. Resource names are canonicalized; unknown actions are
// rejected. Must be called before Freeze.
func LoadACL(s *Settings, data []byte) error {
	var file aclFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse acl: %w", err)
	}

	for rawName, res := range file.Resources {
		name := convention.Canonicalize(rawName)
		s.Touch(name)

		for rawAction, roles := range res.Actions {
			action := Action(rawAction)
			if _, ok := knownActions[action]; !ok {
				return fmt.Errorf("acl: resource %q: unknown action %q", name, rawAction)
			}
			s.Allow(name, action, toRoles(roles)...)
		}

		if err := loadRelRoles(s, name, RelToOne, res.HasOne); err != nil {
			return err
		}
		if err := loadRelRoles(s, name, RelToMany, res.HasMany); err != nil {
			return err
		}

		for rawChild, parents := range res.Sideloads {
			child := convention.Canonicalize(rawChild)
			canonical := make([]string, len(parents))
			for i, p := range parents {
				canonical[i] = convention.Canonicalize(p)
			}
			s.AllowSideload(name, child, canonical...)
		}
	}

	return nil
}

// LoadACLFile reads and applies an access declaration from a file.
func LoadACLFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read acl file: %w", err)
	}
	return LoadACL(s, data)
}

func loadRelRoles(s *Settings, name string, kind RelKind, rels map[string]map[string][]string) error {
	for rel, actions := range rels {
		for rawAction, roles := range actions {
			action := Action(rawAction)
			if _, ok := knownActions[action]; !ok {
				return fmt.Errorf("acl: resource %q %s %q: unknown action %q", name, kind, rel, rawAction)
			}
			s.AllowRel(name, kind, rel, action, toRoles(roles)...)
		}
	}
	return nil
}

func toRoles(raw []string) []Role {
	roles := make([]Role, len(raw))
	for i, r := range raw {
		roles[i] = Role(r)
	}
	return roles
}
