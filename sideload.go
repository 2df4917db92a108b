package declarest

import (
	"net/http"

	"github.com/declarest/declarest/core/apierr"
)

// SideloadFetch performs an internal nested fetch of a child resource
// on behalf of a parent request, typically to honor an include
// directive. The child's show chain runs with the full guard pipeline,
// so the fetch succeeds only when the sideload table permits the child
// under the parent's resource AND the caller is authorized for the
// parent's action. Content negotiation is skipped: the inner exchange
// never reaches the wire.
//
// When resource is non-nil it is injected as the already-resolved
// target, skipping the child's finder.
func (a *App) SideloadFetch(parent *Context, child, id string, resource any) (any, error) {
	name := canonicalName(child)
	m, ok := a.mounts[name]
	if !ok {
		return nil, apierr.NotFound("Resource '" + name + "' is not declared")
	}

	req, err := http.NewRequestWithContext(parent.StdContext(),
		http.MethodGet, "/"+name+"/"+id, nil)
	if err != nil {
		return nil, apierr.Internal(err.Error())
	}

	c := newContext(a, m, discardWriter{}, req)
	c.id = id
	c.resource = resource
	c.sideload = true
	c.parentName = parent.resourceName
	c.parentAction = parent.action

	// The sideload inherits the parent's memoized role rather than
	// recomputing it.
	c.role = parent.Role()
	c.roleSet = true

	if err := a.runRequest(c, true, m.show); err != nil {
		return nil, err
	}

	if a.collector != nil {
		a.collector.SideloadsTotal.WithLabelValues(name).Inc()
	}
	return c.result, nil
}

// discardWriter satisfies http.ResponseWriter for internal fetches,
// which return their result through the context and write nothing.
type discardWriter struct{}

func (discardWriter) Header() http.Header       { return make(http.Header) }
func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (discardWriter) WriteHeader(int)            {}
