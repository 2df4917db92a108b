package declarest

import (
	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/core/registry"
)

// HandlerFunc is a per-action handler. The returned value is the
// logical result serialized into the success document; a nil result
// yields 204 No Content.
type HandlerFunc func(c *Context) (any, error)

// candidate is one predicate+handler pair in a dispatch chain.
type candidate struct {
	action  registry.Action
	guards  []Guard
	handler HandlerFunc
	status  int
}

// chain is the ordered list of candidates for one (method, path shape).
// Guard evaluation order and first-match semantics are explicit: the
// first candidate whose guards all pass handles the request.
type chain struct {
	candidates []candidate
}

func (ch *chain) add(c candidate) {
	ch.candidates = append(ch.candidates, c)
}

// dispatch walks the candidates in declaration order. Guard failures
// never raise while alternatives remain; when no candidate matches,
// the deferred error of the last failing candidate surfaces, and if no
// guard recorded one the request falls through to 404.
func (ch *chain) dispatch(c *Context) error {
	var deferred *apierr.Error

	for _, cand := range ch.candidates {
		c.action = cand.action

		matched := true
		for _, guard := range cand.guards {
			ok, err := guard(c)
			if !ok {
				matched = false
				if err != nil {
					deferred = err
				}
				break
			}
		}
		if !matched {
			continue
		}

		if cand.handler == nil {
			// Guard-only sentinel: guards passed but there is nothing
			// to run, so matching continues.
			continue
		}

		if cand.status != 0 {
			c.status = cand.status
		}

		result, err := cand.handler(c)
		if err != nil {
			return err
		}
		c.result = result
		return nil
	}

	if deferred != nil {
		return deferred
	}
	return apierr.NotFound("No route matched the request")
}
