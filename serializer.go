package declarest

import (
	"fmt"

	"github.com/declarest/declarest/core/apierr"
	"github.com/declarest/declarest/pkg/jsonapi"
)

// Serializer turns a handler's logical result into the JSON:API
// document written on success.
type Serializer interface {
	Success(c *Context, result any) (jsonapi.Document, error)
}

// DocumentSerializer is the default Serializer. It accepts the codec's
// own value shapes and wraps them into a top-level document, attaching
// any resources the handler added to the included section.
type DocumentSerializer struct{}

// Success builds the response document for result.
func (DocumentSerializer) Success(c *Context, result any) (jsonapi.Document, error) {
	var doc jsonapi.Document

	switch v := result.(type) {
	case jsonapi.Document:
		doc = v
	case *jsonapi.Document:
		doc = *v
	case jsonapi.Resource:
		doc = jsonapi.NewSingleResourceDocument(v)
	case *jsonapi.Resource:
		doc = jsonapi.NewSingleResourceDocument(*v)
	case []jsonapi.Resource:
		doc = jsonapi.NewCollectionDocument(v, nil)
	case jsonapi.ResourceIdentifier:
		doc = jsonapi.NewDocument().Data(v).Build()
	case *jsonapi.ResourceIdentifier:
		doc = jsonapi.NewDocument().Data(*v).Build()
	case []jsonapi.ResourceIdentifier:
		doc = jsonapi.NewDocument().Data(v).Build()
	default:
		return jsonapi.Document{}, apierr.Internal(
			fmt.Sprintf("unserializable handler result %T", result))
	}

	if len(c.included) > 0 {
		doc.Included = append(doc.Included, c.included...)
	}
	return doc, nil
}
