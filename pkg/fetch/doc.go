// Package fetch implements the bounded-concurrency continuation fetch engine.
//
// A Descriptor names one logical multi-page query against the wiki API. A
// Handler extracts the payload and continuation token from each response.
// The Scheduler runs many descriptors in parallel and stitches every page
// sequence into one accumulated result per descriptor.
//
// Example usage:
//
//	scheduler := fetch.NewScheduler(wikiClient, fetch.DefaultConfig())
//	results, err := scheduler.Fetch(ctx, descriptors, wikiapi.CategoryMembersHandler{}, nil)
//
// The scheduler:
//   - Launches one goroutine per descriptor while the input fits under the
//     concurrency ceiling (default 200), preserving input order
//   - Switches to a fixed worker pool (default 50) above the ceiling,
//     guaranteeing completeness but not order
//   - Resolves every descriptor to success or explicit failure; a descriptor
//     exhausting its retries never aborts its siblings
package fetch
