package declarest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/core/registry"
	"github.com/declarest/declarest/pkg/jsonapi"
)

// Context carries all request-scoped state: the resolved target
// resource, the memoized caller role, the memoized parsed payload, the
// normalized query parameter groups, and the sideload passthrough. It
// is owned exclusively by the request being processed and discarded at
// its end.
type Context struct {
	app   *App
	mount *resourceMount
	w     http.ResponseWriter
	req   *http.Request

	resourceName string
	action       registry.Action

	// resolved target resource and its id segment
	resource any
	id       string

	// memoized role
	role    registry.Role
	roleSet bool

	// memoized parsed payload, keyed by request path
	payload     *jsonapi.Payload
	payloadErr  error
	payloadPath string

	// sideload passthrough: set only for internal nested fetches
	sideload     bool
	parentName   string
	parentAction registry.Action

	// normalized query parameter groups
	fields  map[string]string
	include []string
	filter  map[string]string
	page    map[string]string
	sort    []string

	// handler output
	result   any
	status   int
	location string
	included []jsonapi.Resource
}

func newContext(a *App, m *resourceMount, w http.ResponseWriter, r *http.Request) *Context {
	c := &Context{
		app:          a,
		mount:        m,
		w:            w,
		req:          r,
		resourceName: m.name,
		status:       http.StatusOK,
	}
	c.normalizeParams(r.URL.Query())
	return c
}

// normalizeParams fills the standard parameter groups, defaulting
// absent ones to empty values so downstream code never branches on
// presence.
func (c *Context) normalizeParams(q url.Values) {
	c.fields = groupParams(q, "fields")
	c.filter = groupParams(q, "filter")
	c.page = groupParams(q, "page")
	c.include = listParam(q.Get("include"))
	c.sort = listParam(q.Get("sort"))
}

// groupParams extracts keys of the form group[sub]=value.
func groupParams(q url.Values, group string) map[string]string {
	out := make(map[string]string)
	prefix := group + "["
	for key, values := range q {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		sub := key[len(prefix) : len(key)-1]
		if sub == "" || len(values) == 0 {
			continue
		}
		out[sub] = values[0]
	}
	return out
}

func listParam(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request {
	return c.req
}

// ResourceName returns the canonical name of the target resource.
func (c *Context) ResourceName() string {
	return c.resourceName
}

// Action returns the action of the candidate currently dispatching.
func (c *Context) Action() registry.Action {
	return c.action
}

// ID returns the id path segment of the request, if any.
func (c *Context) ID() string {
	if c.id != "" {
		return c.id
	}
	return chi.URLParam(c.req, "id")
}

// Resource returns the resolved target resource instance.
func (c *Context) Resource() any {
	return c.resource
}

// SetResource stores the resolved target resource instance.
func (c *Context) SetResource(resource any) {
	c.resource = resource
}

// Role returns the caller's role, computing it at most once per
// request. A resolver installed on the resource overrides the
// application-wide one.
func (c *Context) Role() registry.Role {
	if !c.roleSet {
		resolve := c.app.resolveRole
		if c.mount != nil && c.mount.roleResolver != nil {
			resolve = c.mount.roleResolver
		}
		c.role = resolve(c.req)
		c.roleSet = true
	}
	return c.role
}

// Data lazily parses and memoizes the request body's primary payload.
// The memo is keyed by request path so repeated access within one
// request never re-parses. Parse failures surface as 400 errors.
func (c *Context) Data() (*jsonapi.Payload, error) {
	path := c.req.URL.Path
	if c.payloadPath == path && (c.payload != nil || c.payloadErr != nil) {
		return c.payload, c.payloadErr
	}

	c.payloadPath = path
	if c.req.Body == nil {
		c.payload, c.payloadErr = nil, apierr.BadRequest("Request body is required")
		return c.payload, c.payloadErr
	}

	payload, err := jsonapi.ParsePayload(c.req.Body)
	if err != nil {
		c.payload, c.payloadErr = nil, apierr.BadRequest(err.Error())
		return c.payload, c.payloadErr
	}

	c.payload, c.payloadErr = payload, nil
	return c.payload, nil
}

// Can reports whether the caller's role may perform the given action on
// the current resource. Handlers use it to branch on capability without
// raising.
func (c *Context) Can(action registry.Action) bool {
	return c.app.can(c, c.resourceName, action, "", "")
}

// SanityCheck validates the payload's primary resource against the
// endpoint: its type must canonicalize to the target resource name, and
// when the route carries an id the payload must declare the same id.
// Mismatches are conflicts, not validation failures.
func (c *Context) SanityCheck() error {
	payload, err := c.Data()
	if err != nil {
		return err
	}
	if payload.Resource == nil {
		return apierr.Unprocessable("Primary data must be a single resource object")
	}
	if canonicalName(payload.Resource.Type) != c.resourceName {
		return apierr.Conflict(fmt.Sprintf("Payload type '%s' does not belong to '%s'",
			payload.Resource.Type, c.resourceName))
	}
	if id := c.ID(); id != "" && payload.Resource.ID != id {
		if payload.Resource.ID == "" {
			return apierr.Conflict(fmt.Sprintf("Payload declares no id for endpoint id '%s'", id))
		}
		return apierr.Conflict(fmt.Sprintf("Payload id '%s' does not match endpoint id '%s'",
			payload.Resource.ID, id))
	}
	return nil
}

// CanSideload reports whether the given child resource may be embedded
// in this request's response: the request must itself be a sideload,
// the sideload table must permit the child under the enclosing parent,
// and the caller must be authorized for the parent's action. Always
// false for client-facing requests.
func (c *Context) CanSideload(child string) bool {
	return c.app.canSideload(c, c.resourceName, canonicalName(child))
}

// IsSideload reports whether this request is an internal nested fetch
// performed on behalf of an include directive.
func (c *Context) IsSideload() bool {
	return c.sideload
}

// ParentName returns the canonical name of the enclosing parent
// resource when this request is a sideload.
func (c *Context) ParentName() string {
	return c.parentName
}

// ParentAction returns the action the enclosing parent request was
// performing when it triggered this sideload.
func (c *Context) ParentAction() registry.Action {
	return c.parentAction
}

// Fields returns the normalized fields parameter group.
func (c *Context) Fields() map[string]string {
	return c.fields
}

// Include returns the normalized include parameter list.
func (c *Context) Include() []string {
	return c.include
}

// Filter returns the normalized filter parameter group.
func (c *Context) Filter() map[string]string {
	return c.filter
}

// HasFilters reports whether every given key is present in the filter
// parameter group.
func (c *Context) HasFilters(keys ...string) bool {
	for _, key := range keys {
		if _, ok := c.filter[key]; !ok {
			return false
		}
	}
	return true
}

// Page returns the normalized page parameter group.
func (c *Context) Page() map[string]string {
	return c.page
}

// Sort returns the normalized sort parameter list.
func (c *Context) Sort() []string {
	return c.sort
}

// Status sets the success status for the response (default 200;
// create routes default to 201).
func (c *Context) Status(status int) {
	c.status = status
}

// SetLocation sets the Location header emitted with the success
// response, typically by create handlers.
func (c *Context) SetLocation(location string) {
	c.location = location
}

// AddIncluded appends resources to the compound document's included
// section.
func (c *Context) AddIncluded(resources ...jsonapi.Resource) {
	c.included = append(c.included, resources...)
}

// Transaction runs fn inside the application's transaction hook.
func (c *Context) Transaction(fn func() error) error {
	return c.app.transaction(c.req.Context(), fn)
}

// StdContext returns the request's context.Context for finder and
// persistence calls.
func (c *Context) StdContext() context.Context {
	return c.req.Context()
}
