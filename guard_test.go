package declarest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/core/registry"
	"github.com/declarest/declarest/pkg/jsonapi"
)

func TestPFiltersRouting(t *testing.T) {
	a := New()
	a.Resource("post", func(r *Resource) {
		r.Index(func(c *Context) (any, error) {
			return jsonapi.NewResource("posts", "by-author").Build(), nil
		}, PFilters("author"))
		r.Index(func(c *Context) (any, error) {
			return jsonapi.NewResource("posts", "all").Build(), nil
		})
	})
	h := a.Handler()

	w := doJSON(h, http.MethodGet, "/posts?filter[author]=ann", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"by-author"`)

	w = doJSON(h, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"all"`)
}

func TestPFiltersWithoutFallbackIsNotFound(t *testing.T) {
	a := New()
	a.Resource("post", func(r *Resource) {
		// The only index candidate demands a filter. A request without
		// it matches nothing and no guard defers an error.
		r.Index(func(c *Context) (any, error) {
			return jsonapi.NewResource("posts", "by-author").Build(), nil
		}, PFilters("author"))
	})
	w := doJSON(a.Handler(), http.MethodGet, "/posts", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestLastFailingCandidateErrorSurfaces(t *testing.T) {
	reject := func(e *apierr.Error) Guard {
		return func(c *Context) (bool, *apierr.Error) { return false, e }
	}
	noop := func(c *Context) (any, error) { return nil, nil }

	a := New()
	a.Resource("post", func(r *Resource) {
		r.Index(noop, reject(apierr.Forbidden("first")))
		r.Index(noop, reject(apierr.Conflict("second")))
	})
	w := doJSON(a.Handler(), http.MethodGet, "/posts", "", nil)

	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	_, detail := errorDetail(t, w)
	assert.Equal(t, "second", detail)
}

func relApp() *App {
	a := New()
	a.Resource("post", func(r *Resource) {
		r.Finder(func(c *Context, id string) (any, error) { return &post{ID: id}, nil })

		r.HasOne("author", func(rel *Relationship) {
			rel.Pluck(func(c *Context) (any, error) {
				return jsonapi.ResourceIdentifier{Type: "people", ID: "7"}, nil
			})
			rel.Graft(func(c *Context) (any, error) {
				payload, err := c.Data()
				if err != nil {
					return nil, err
				}
				return jsonapi.ResourceIdentifier{
					Type: payload.Resource.Type,
					ID:   payload.Resource.ID,
				}, nil
			})
			rel.Prune(func(c *Context) (any, error) {
				return nil, nil
			})
		})

		r.HasMany("comments", func(rel *Relationship) {
			rel.Fetch(func(c *Context) (any, error) {
				return []jsonapi.ResourceIdentifier{{Type: "comments", ID: "1"}}, nil
			})
			rel.Merge(func(c *Context) (any, error) { return nil, nil })
			rel.Subtract(func(c *Context) (any, error) { return nil, nil })
		})
	})
	return a
}

func TestToOnePayloadRouting(t *testing.T) {
	h := relApp().Handler()

	// Non-null linkage routes to the replacement handler.
	w := doJSON(h, http.MethodPatch, "/posts/1/relationships/author",
		`{"data": {"type": "people", "id": "9"}}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"9"`)

	// Null linkage routes to the clearing handler.
	w = doJSON(h, http.MethodPatch, "/posts/1/relationships/author",
		`{"data": null}`, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// DELETE clears without a payload.
	w = doJSON(h, http.MethodDelete, "/posts/1/relationships/author", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestRelationshipRoutes(t *testing.T) {
	h := relApp().Handler()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/posts/1/author", "", http.StatusOK},
		{http.MethodGet, "/posts/1/relationships/author", "", http.StatusOK},
		{http.MethodGet, "/posts/1/comments", "", http.StatusOK},
		{http.MethodPost, "/posts/1/relationships/comments", `{"data": []}`, http.StatusNoContent},
		{http.MethodDelete, "/posts/1/relationships/comments", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		w := doJSON(h, tt.method, tt.path, tt.body, nil)
		assert.Equal(t, tt.want, w.Code, "%s %s: %s", tt.method, tt.path, w.Body.String())
	}
}

func TestRelationshipRoleOverride(t *testing.T) {
	a := New(WithRoleResolver(func(r *http.Request) registry.Role {
		return registry.Role(r.Header.Get("X-Role"))
	}))
	a.Resource("post", func(r *Resource) {
		r.Finder(func(c *Context, id string) (any, error) { return &post{ID: id}, nil })
		r.HasOne("author", func(rel *Relationship) {
			rel.Allow(registry.ActionGraft, "admin")
			rel.Graft(func(c *Context) (any, error) { return nil, nil })
		})
	})
	h := a.Handler()
	body := `{"data": {"type": "people", "id": "9"}}`

	w := doJSON(h, http.MethodPatch, "/posts/1/relationships/author", body, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = doJSON(h, http.MethodPatch, "/posts/1/relationships/author", body,
		map[string]string{"X-Role": "admin"})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestRelationshipKindMismatchPanics(t *testing.T) {
	a := New()
	assert.Panics(t, func() {
		a.Resource("post", func(r *Resource) {
			r.HasMany("comments", func(rel *Relationship) {
				rel.Pluck(func(c *Context) (any, error) { return nil, nil })
			})
		})
	})
}

func TestNilHandlerPanics(t *testing.T) {
	a := New()
	assert.Panics(t, func() {
		a.Resource("post", func(r *Resource) {
			r.Show(nil)
		})
	})
}

func TestDuplicateResourcePanics(t *testing.T) {
	a := New()
	a.Resource("post", func(r *Resource) {})
	assert.Panics(t, func() {
		// Same canonical name through a different raw spelling.
		a.Resource("posts", func(r *Resource) {})
	})
}
