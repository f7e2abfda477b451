package fetch

// Descriptor describes one logical multi-page fetch. It is an immutable
// value built by query builders and read-only to the engine.
type Descriptor struct {
	// BaseQuery is the complete URL for the first request.
	BaseQuery string

	// ContinueParam is appended to BaseQuery together with the continuation
	// token on follow-up requests (e.g. "&cmcontinue="). Empty means the
	// resource is single-page by construction: the first response is final
	// even if it carries a token.
	ContinueParam string

	// ResultName, when set, wraps this descriptor's accumulated result as a
	// single-entry mapping keyed by the name. Callers that need result
	// correspondence in pooled mode must set it.
	ResultName string
}
