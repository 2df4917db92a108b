package declarest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/declarest/declarest/core/registry"
)

// FinderFunc loads the target resource for id-bearing routes. Returning
// a nil resource with a nil error means the resource does not exist.
type FinderFunc func(c *Context, id string) (any, error)

// resourceMount is the runtime state of one declared resource: its
// canonical name, its finder, and the dispatch chain for each mounted
// route shape.
type resourceMount struct {
	name         string
	finder       FinderFunc
	roleResolver RoleResolver

	index   *chain
	create  *chain
	show    *chain
	update  *chain
	destroy *chain

	rels map[string]*relMount
}

// relMount holds the dispatch chains for one declared relationship.
type relMount struct {
	name string
	kind registry.RelKind

	get    *chain // pluck (to-one) / fetch (to-many)
	patch  *chain // graft / prune (to-one)
	post   *chain // merge (to-many)
	delete *chain // prune (to-one) / subtract (to-many)
}

// Resource is the declaration handle passed to the define callback of
// App.Resource. All registration methods panic after freeze and when
// given a nil handler.
type Resource struct {
	app   *App
	mount *resourceMount
}

// Resource declares a resource under its canonical (pluralized,
// hyphenated) name and mounts the standard JSON:API routes for it.
// Routes exist for every standard action regardless of which handlers
// the define callback registers: hitting an action without a handler
// yields 405, and an unauthorized one 403, never a bare router miss.
func (a *App) Resource(raw string, define func(*Resource)) {
	if define == nil {
		panic("declarest: Resource requires a define callback")
	}

	name := canonicalName(raw)
	if _, dup := a.mounts[name]; dup {
		panic(fmt.Sprintf("declarest: resource %q declared twice", name))
	}

	a.settings.Touch(name)

	m := &resourceMount{
		name:    name,
		index:   &chain{},
		create:  &chain{},
		show:    &chain{},
		update:  &chain{},
		destroy: &chain{},
		rels:    make(map[string]*relMount),
	}
	a.mounts[name] = m

	define(&Resource{app: a, mount: m})

	a.sealMount(m)
	a.mountRoutes(m)
}

// Name returns the canonical resource name the declaration resolved to.
func (r *Resource) Name() string {
	return r.mount.name
}

// Finder sets the lookup used by id-bearing routes to resolve the
// target resource before dispatch. Without a finder every id-bearing
// request 404s.
func (r *Resource) Finder(fn FinderFunc) {
	r.mount.finder = fn
}

// RoleResolver overrides the application-wide role resolver for
// requests targeting this resource.
func (r *Resource) RoleResolver(fn RoleResolver) {
	r.mount.roleResolver = fn
}

// Allow restricts a resource-level action to the given roles.
func (r *Resource) Allow(action registry.Action, roles ...registry.Role) {
	r.app.settings.Allow(r.mount.name, action, roles...)
}

// SideloadFrom permits this resource to be embedded, via internal
// nested fetches, under each of the given parent resources.
func (r *Resource) SideloadFrom(parents ...string) {
	canonical := make([]string, len(parents))
	for i, p := range parents {
		canonical[i] = canonicalName(p)
	}
	r.app.settings.AllowSideload(r.mount.name, r.mount.name, canonical...)
}

// Index registers the collection handler (GET /name).
func (r *Resource) Index(h HandlerFunc, guards ...Guard) {
	r.register(r.mount.index, registry.ActionIndex, 0, h, guards)
}

// Show registers the single-resource handler (GET /name/{id}).
func (r *Resource) Show(h HandlerFunc, guards ...Guard) {
	r.register(r.mount.show, registry.ActionShow, 0, h, guards)
}

// Create registers the creation handler (POST /name). Successful
// creations respond 201 unless the handler overrides the status.
func (r *Resource) Create(h HandlerFunc, guards ...Guard) {
	r.register(r.mount.create, registry.ActionCreate, http.StatusCreated, h, guards)
}

// Update registers the mutation handler (PATCH /name/{id}).
func (r *Resource) Update(h HandlerFunc, guards ...Guard) {
	r.register(r.mount.update, registry.ActionUpdate, 0, h, guards)
}

// Destroy registers the deletion handler (DELETE /name/{id}).
func (r *Resource) Destroy(h HandlerFunc, guards ...Guard) {
	r.register(r.mount.destroy, registry.ActionDestroy, 0, h, guards)
}

func (r *Resource) register(ch *chain, action registry.Action, status int, h HandlerFunc, guards []Guard) {
	if h == nil {
		panic(fmt.Sprintf("declarest: nil handler for %s on %q", action, r.mount.name))
	}
	r.app.settings.RegisterHandler(r.mount.name, registry.HandlerKey(action))

	all := make([]Guard, 0, len(guards)+1)
	all = append(all, r.app.actionsGuard(r.mount.name, action))
	all = append(all, guards...)
	ch.add(candidate{action: action, guards: all, handler: h, status: status})
}

// HasOne declares a to-one relationship and its routes.
func (r *Resource) HasOne(rel string, define func(*Relationship)) {
	r.relationship(registry.RelToOne, rel, define)
}

// HasMany declares a to-many relationship and its routes.
func (r *Resource) HasMany(rel string, define func(*Relationship)) {
	r.relationship(registry.RelToMany, rel, define)
}

func (r *Resource) relationship(kind registry.RelKind, rel string, define func(*Relationship)) {
	if define == nil {
		panic(fmt.Sprintf("declarest: relationship %q on %q requires a define callback", rel, r.mount.name))
	}
	if _, dup := r.mount.rels[rel]; dup {
		panic(fmt.Sprintf("declarest: relationship %q on %q declared twice", rel, r.mount.name))
	}

	rm := &relMount{
		name:   rel,
		kind:   kind,
		get:    &chain{},
		patch:  &chain{},
		post:   &chain{},
		delete: &chain{},
	}
	r.mount.rels[rel] = rm

	define(&Relationship{app: r.app, resource: r.mount, mount: rm})
}

// Relationship is the declaration handle for one relationship of a
// resource. To-one relationships take Pluck, Graft, and Prune; to-many
// relationships take Fetch, Merge, and Subtract. Registering an action
// of the wrong arity panics.
type Relationship struct {
	app      *App
	resource *resourceMount
	mount    *relMount
}

// Allow restricts a relationship-level action to the given roles,
// overriding the resource-level entry for the same action.
func (r *Relationship) Allow(action registry.Action, roles ...registry.Role) {
	r.app.settings.AllowRel(r.resource.name, r.mount.kind, r.mount.name, action, roles...)
}

// Pluck registers the to-one read handler (GET .../rel).
func (r *Relationship) Pluck(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToOne, registry.ActionPluck)
	r.register(r.mount.get, registry.ActionPluck, 0, h, guards)
}

// Graft registers the to-one replacement handler, matched on PATCH
// requests whose payload data is non-null.
func (r *Relationship) Graft(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToOne, registry.ActionGraft)
	r.register(r.mount.patch, registry.ActionGraft, 0, h, append([]Guard{NotNull}, guards...))
}

// Prune registers the to-one clearing handler, matched on DELETE
// requests and on PATCH requests whose payload data is null.
func (r *Relationship) Prune(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToOne, registry.ActionPrune)
	r.register(r.mount.patch, registry.ActionPrune, 0, h, append([]Guard{IsNull}, guards...))
	r.register(r.mount.delete, registry.ActionPrune, 0, h, guards)
}

// Fetch registers the to-many read handler (GET .../rel).
func (r *Relationship) Fetch(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToMany, registry.ActionFetch)
	r.register(r.mount.get, registry.ActionFetch, 0, h, guards)
}

// Merge registers the to-many addition handler (POST .../relationships/rel).
func (r *Relationship) Merge(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToMany, registry.ActionMerge)
	r.register(r.mount.post, registry.ActionMerge, 0, h, guards)
}

// Subtract registers the to-many removal handler (DELETE .../relationships/rel).
func (r *Relationship) Subtract(h HandlerFunc, guards ...Guard) {
	r.mustKind(registry.RelToMany, registry.ActionSubtract)
	r.register(r.mount.delete, registry.ActionSubtract, 0, h, guards)
}

func (r *Relationship) mustKind(kind registry.RelKind, action registry.Action) {
	if r.mount.kind != kind {
		panic(fmt.Sprintf("declarest: %s is a %s action, relationship %q on %q is %s",
			action, kind, r.mount.name, r.resource.name, r.mount.kind))
	}
}

func (r *Relationship) register(ch *chain, action registry.Action, status int, h HandlerFunc, guards []Guard) {
	if h == nil {
		panic(fmt.Sprintf("declarest: nil handler for %s on %q %s %q",
			action, r.resource.name, r.mount.kind, r.mount.name))
	}
	r.app.settings.RegisterHandler(r.resource.name,
		registry.RelHandlerKey(r.mount.kind, r.mount.name, action))

	all := make([]Guard, 0, len(guards)+1)
	all = append(all, r.app.relActionsGuard(r.resource.name, r.mount.kind, r.mount.name, action))
	all = append(all, guards...)
	ch.add(candidate{action: action, guards: all, handler: h, status: status})
}

// sealMount appends sentinel candidates for actions no handler was
// registered for, so that every standard route exists and unhandled
// actions fail through the guard path (403 when unauthorized, 405
// otherwise) instead of falling off the router.
func (a *App) sealMount(m *resourceMount) {
	seal := func(ch *chain, action registry.Action) {
		if !a.settings.HasHandler(m.name, registry.HandlerKey(action)) {
			ch.add(candidate{action: action, guards: []Guard{a.actionsGuard(m.name, action)}})
		}
	}
	seal(m.index, registry.ActionIndex)
	seal(m.create, registry.ActionCreate)
	seal(m.show, registry.ActionShow)
	seal(m.update, registry.ActionUpdate)
	seal(m.destroy, registry.ActionDestroy)

	for _, rm := range m.rels {
		// Applicability guards come before the action guard on
		// sentinels so an inapplicable sentinel fails silently instead
		// of overwriting a real candidate's deferred error.
		sealRel := func(ch *chain, action registry.Action, applies ...Guard) {
			if !a.settings.HasHandler(m.name, registry.RelHandlerKey(rm.kind, rm.name, action)) {
				guards := append([]Guard{}, applies...)
				guards = append(guards, a.relActionsGuard(m.name, rm.kind, rm.name, action))
				ch.add(candidate{action: action, guards: guards})
			}
		}
		switch rm.kind {
		case registry.RelToOne:
			sealRel(rm.get, registry.ActionPluck)
			sealRel(rm.patch, registry.ActionGraft, NotNull)
			sealRel(rm.patch, registry.ActionPrune, IsNull)
			sealRel(rm.delete, registry.ActionPrune)
		case registry.RelToMany:
			sealRel(rm.get, registry.ActionFetch)
			sealRel(rm.post, registry.ActionMerge)
			sealRel(rm.delete, registry.ActionSubtract)
		}
	}
}

// mountRoutes wires the standard JSON:API route shapes for the resource
// onto the application router.
func (a *App) mountRoutes(m *resourceMount) {
	a.mux.Route("/"+m.name, func(router chi.Router) {
		router.Get("/", a.serve(m, false, m.index))
		router.Post("/", a.serve(m, false, m.create))

		router.Route("/{id}", func(router chi.Router) {
			router.Get("/", a.serve(m, true, m.show))
			router.Patch("/", a.serve(m, true, m.update))
			router.Delete("/", a.serve(m, true, m.destroy))

			for _, rm := range m.rels {
				router.Get("/"+rm.name, a.serve(m, true, rm.get))

				router.Route("/relationships/"+rm.name, func(router chi.Router) {
					router.Get("/", a.serve(m, true, rm.get))
					switch rm.kind {
					case registry.RelToOne:
						router.Patch("/", a.serve(m, true, rm.patch))
						router.Delete("/", a.serve(m, true, rm.delete))
					case registry.RelToMany:
						router.Post("/", a.serve(m, true, rm.post))
						router.Delete("/", a.serve(m, true, rm.delete))
					}
				})
			}
		})
	})
}
