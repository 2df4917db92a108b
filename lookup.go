package declarest

import (
	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/pkg/jsonapi"
)

// negotiate enforces the JSON:API media type contract before any
// handler runs: the Accept header, when present, must admit the media
// type (406 otherwise), and a request carrying a body must declare it
// exactly (415 otherwise). The response Content-Type is forced
// unconditionally so even error documents go out correctly labeled.
func negotiate(c *Context) error {
	c.w.Header().Set("Content-Type", jsonapi.ContentType)

	if !jsonapi.Acceptable(c.req.Header.Get("Accept")) {
		return apierr.NotAcceptable("")
	}

	if hasBody(c) && !jsonapi.ValidContentType(c.req.Header.Get("Content-Type")) {
		return apierr.UnsupportedMediaType("")
	}

	return nil
}

func hasBody(c *Context) bool {
	// ContentLength is -1 when a body of unknown length is present.
	return c.req.ContentLength > 0 || c.req.ContentLength == -1
}

// resolveResource loads the target resource for id-bearing routes.
// A resource injected by an internal nested fetch wins; otherwise the
// declared finder runs. No finder, a nil find result, or a finder error
// all terminate the request before dispatch.
func resolveResource(c *Context) error {
	if c.resource != nil {
		return nil
	}

	id := c.ID()
	if c.mount.finder == nil {
		return apierr.NotFoundID(id)
	}

	resource, err := c.mount.finder(c, id)
	if err != nil {
		return err
	}
	if resource == nil {
		return apierr.NotFoundID(id)
	}

	c.resource = resource
	return nil
}
