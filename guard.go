package declarest

import (
	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/core/registry"
	"github.com/declarest/declarest/pkg/jsonapi"
)

// Guard is a boolean predicate gating whether a candidate route may
// handle the current request. A failing guard may carry a deferred
// error; the dispatcher surfaces the deferred error of the last failing
// candidate only when no candidate matches, so earlier failures never
// short-circuit route fallthrough.
type Guard func(c *Context) (ok bool, deferred *apierr.Error)

// actionsGuard builds the action guard for resource-level actions:
// every named action must be authorized (or a permitted sideload) and
// must have a registered handler. Authorization is checked before
// handler existence, so an unauthorized caller sees 403 even when no
// handler exists.
func (a *App) actionsGuard(name string, actions ...registry.Action) Guard {
	return func(c *Context) (bool, *apierr.Error) {
		for _, action := range actions {
			if !a.can(c, name, action, "", "") && !a.canSideload(c, name, name) {
				return false, apierr.Forbidden("").
					WithMeta("action", string(action))
			}
			if !a.settings.HasHandler(name, registry.HandlerKey(action)) {
				return false, apierr.MethodNotAllowed("").
					WithMeta("action", string(action))
			}
		}
		return true, nil
	}
}

// relActionsGuard is the action guard for relationship-level actions.
func (a *App) relActionsGuard(name string, kind registry.RelKind, rel string, actions ...registry.Action) Guard {
	return func(c *Context) (bool, *apierr.Error) {
		for _, action := range actions {
			if !a.can(c, name, action, kind, rel) && !a.canSideload(c, name, name) {
				return false, apierr.Forbidden("").
					WithMeta("action", string(action)).
					WithMeta("relationship", rel)
			}
			if !a.settings.HasHandler(name, registry.RelHandlerKey(kind, rel, action)) {
				return false, apierr.MethodNotAllowed("").
					WithMeta("action", string(action)).
					WithMeta("relationship", rel)
			}
		}
		return true, nil
	}
}

// PFilters passes only when every given key is present inside the
// request's filter parameter group. It lets the same action route
// differently depending on which filter the client supplied. A failing
// PFilters carries no deferred error: unmatched candidates fall through
// to 404.
func PFilters(keys ...string) Guard {
	return func(c *Context) (bool, *apierr.Error) {
		return c.HasFilters(keys...), nil
	}
}

// NullIf passes only when the predicate holds against the parsed
// request payload. It branches relationship-clearing from
// relationship-setting operations that share a method. A payload that
// fails to parse surfaces as a deferred 400.
func NullIf(pred func(*jsonapi.Payload) bool) Guard {
	return func(c *Context) (bool, *apierr.Error) {
		payload, err := c.Data()
		if err != nil {
			return false, apierr.From(err)
		}
		return pred(payload), nil
	}
}

// NotNull passes when the request payload's data member is present and
// non-null. Relationship replacement routes use it to claim PATCH
// requests carrying linkage.
var NotNull Guard = NullIf(func(p *jsonapi.Payload) bool { return !p.Null })

// IsNull passes when the request payload's data member is explicitly
// null. Relationship clearing routes use it to claim PATCH requests
// without linkage.
var IsNull Guard = NullIf(func(p *jsonapi.Payload) bool { return p.Null })

// can is the authorization check: it consults the role table entry for
// the resource (the relationship-level table when kind and rel are
// given) and allows when the set is empty or contains the memoized
// role. It performs no I/O and never fails; callers decide what a
// false result means.
func (a *App) can(c *Context, name string, action registry.Action, kind registry.RelKind, rel string) bool {
	var set registry.RoleSet
	if rel != "" {
		set = a.settings.RolesForRel(name, kind, rel, action)
	} else {
		set = a.settings.RolesFor(name, action)
	}
	return set.Allows(c.Role())
}

// canSideload is the transitive sideload permission check: it grants
// nothing unless the request is itself a sideload, the sideload table
// permits child under the enclosing parent's name, and the caller is
// independently authorized for the parent at its inferred action.
func (a *App) canSideload(c *Context, name, child string) bool {
	if !c.sideload {
		return false
	}
	if !a.settings.SideloadAllowed(name, child, c.parentName) {
		return false
	}
	return a.can(c, c.parentName, c.parentAction, "", "")
}
