package fetch

import (
	"github.com/wikitalk/crawler/pkg/client"
)

// shape tags a runner's merge behavior. It is fixed by the first payload and
// validated on every subsequent merge.
type shape int

const (
	shapeUnset shape = iota
	shapeSequence
	shapeMapping
)

func (s shape) String() string {
	switch s {
	case shapeSequence:
		return "sequence"
	case shapeMapping:
		return "mapping"
	default:
		return "unset"
	}
}

// payloadShape classifies a payload. A non-nil Fields makes it a mapping;
// everything else is a sequence (including an empty page).
func payloadShape(p Payload) shape {
	if p.Fields != nil {
		return shapeMapping
	}
	return shapeSequence
}

// accumulator stitches a descriptor's page sequence into one result.
// It is exclusively owned by one runner for its lifetime.
type accumulator struct {
	shape  shape
	items  []any
	fields map[string]any
}

// merge folds one payload into the accumulated result. A payload whose shape
// conflicts with the established shape is a handler contract violation and
// fails the run.
func (a *accumulator) merge(p Payload) error {
	ps := payloadShape(p)

	if a.shape == shapeUnset {
		a.shape = ps
	} else if a.shape != ps {
		return &client.CrawlError{
			Class:   client.ErrorClassLogic,
			Message: "payload shape " + ps.String() + " conflicts with established shape " + a.shape.String(),
		}
	}

	switch ps {
	case shapeSequence:
		a.items = append(a.items, p.Items...)
	case shapeMapping:
		if a.fields == nil {
			a.fields = make(map[string]any, len(p.Fields))
		}
		for k, v := range p.Fields {
			a.fields[k] = v
		}
	}

	return nil
}

// value returns the accumulated result, wrapped as a single-entry mapping
// when resultName is set.
func (a *accumulator) value(resultName string) any {
	var v any
	switch a.shape {
	case shapeMapping:
		v = a.fields
	default:
		if a.items == nil {
			v = []any{}
		} else {
			v = a.items
		}
	}

	if resultName != "" {
		return map[string]any{resultName: v}
	}
	return v
}
