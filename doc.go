// Package declarest turns named domain resources into JSON:API HTTP
// endpoints with per-action, per-role authorization and a strict
// request/response lifecycle.
//
// Resources are declared once at startup and the configuration is then
// frozen; requests are dispatched through an ordered chain of guarded
// candidate handlers, and every failure, however triggered, collapses
// into a uniform JSON:API error document.
//
// A minimal application:
//
//	app := declarest.New(
//		declarest.WithRoleResolver(func(r *http.Request) registry.Role {
//			return registry.Role(r.Header.Get("X-Role"))
//		}),
//	)
//
//	app.Resource("post", func(r *declarest.Resource) {
//		r.Finder(store.FindPost)
//		r.Show(func(c *declarest.Context) (any, error) {
//			post := c.Resource().(*Post)
//			return jsonapi.NewResource("posts", post.ID).
//				Attr("title", post.Title).
//				Build(), nil
//		})
//	})
//
//	http.ListenAndServe(":8080", app.Handler())
//
// Role and sideload restrictions live in a registry.Settings table,
// populated programmatically or from a YAML access declaration, and
// frozen when Handler is first called.
package declarest
