package fetch

// Payload is the extraction from one decoded response: a payload subtree
// plus the continuation token, if any.
type Payload struct {
	// Items is the payload for sequence-shaped resources. Merged by
	// concatenation, order preserved.
	Items []any

	// Fields is the payload for mapping-shaped resources. Merged by key
	// union where later keys overwrite earlier ones. A non-nil Fields makes
	// the payload mapping-shaped regardless of Items.
	Fields map[string]any

	// Token is the continuation token for the next page. Empty means the
	// last page has been reached.
	Token string
}

// Handler extracts a payload and continuation token from one decoded JSON
// body. Implementations must be stateless except through their return value;
// one implementation exists per resource family. Malformed JSON never reaches
// a handler; an unexpected body shape should be returned as an error.
type Handler interface {
	Handle(body map[string]any) (Payload, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(body map[string]any) (Payload, error)

// Handle calls f(body).
func (f HandlerFunc) Handle(body map[string]any) (Payload, error) {
	return f(body)
}
