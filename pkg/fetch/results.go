package fetch

// Results assembles per-descriptor outcomes into the final result set.
//
// When every descriptor names itself, Named holds the key union of the
// per-runner singleton mappings (keys are unique by construction). Otherwise
// successful results land in Ordered: input order in direct mode, completion
// order in pooled mode. Outcomes always carries one entry per input
// descriptor regardless of success or failure.
type Results struct {
	Named    map[string]any
	Ordered  []any
	Failed   []Outcome
	Outcomes []Outcome
}

// Len returns the total number of outcomes.
func (r Results) Len() int {
	return len(r.Outcomes)
}

// Aggregate assembles outcomes per the correspondence rules.
func Aggregate(outcomes []Outcome) Results {
	r := Results{Outcomes: outcomes}
	if len(outcomes) == 0 {
		return r
	}

	allNamed := true
	for _, o := range outcomes {
		if o.Descriptor.ResultName == "" {
			allNamed = false
			break
		}
	}

	for _, o := range outcomes {
		if o.Err != nil {
			r.Failed = append(r.Failed, o)
			continue
		}

		if allNamed {
			if r.Named == nil {
				r.Named = make(map[string]any, len(outcomes))
			}
			// Runners wrap named results as single-entry mappings
			if m, ok := o.Value.(map[string]any); ok {
				for k, v := range m {
					r.Named[k] = v
				}
				continue
			}
			r.Named[o.Descriptor.ResultName] = o.Value
			continue
		}

		r.Ordered = append(r.Ordered, o.Value)
	}

	return r
}
