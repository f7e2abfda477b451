package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/wikitalk/crawler/pkg/client"
)

// runner drives one descriptor through repeated request/response cycles
// until no continuation remains. Its state is exclusively owned and is
// discarded on completion or failure; partial results never escape.
type runner struct {
	client  *client.Client
	handler Handler
	desc    Descriptor
	logger  zerolog.Logger

	currentURL   string
	requestCount int
	token        string
	acc          accumulator
}

func newRunner(c *client.Client, desc Descriptor, handler Handler, logger zerolog.Logger) *runner {
	return &runner{
		client:  c,
		handler: handler,
		desc:    desc,
		logger:  logger,
	}
}

// run executes the continuation loop and returns the accumulated result.
// Each page request is retried per the client's retry policy, replaying the
// same URL with the same continuation token. Exhausting retries fails this
// descriptor only.
func (r *runner) run(ctx context.Context) (any, error) {
	r.currentURL = r.desc.BaseQuery

	for {
		var payload Payload

		err := client.RetryWithBackoff(ctx, r.client.RetryConfig(), func() error {
			body, err := r.client.Get(ctx, r.currentURL)
			if err != nil {
				return err
			}

			var decoded map[string]any
			if err := json.Unmarshal(body, &decoded); err != nil {
				return &client.CrawlError{
					Class:   client.ErrorClassMalformed,
					Message: "decode json body",
					Err:     err,
				}
			}

			p, err := r.handler.Handle(decoded)
			if err != nil {
				var ce *client.CrawlError
				if errors.As(err, &ce) {
					return err
				}
				return &client.CrawlError{
					Class:   client.ErrorClassMalformed,
					Message: "handle response",
					Err:     err,
				}
			}

			payload = p
			return nil
		})
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("url", r.currentURL).
				Int("requests", r.requestCount).
				Msg("Descriptor failed")
			return nil, err
		}

		// Shape conflicts are fatal for this run, never retried
		if err := r.acc.merge(payload); err != nil {
			return nil, err
		}
		r.requestCount++

		if payload.Token == "" || r.desc.ContinueParam == "" {
			break
		}

		r.token = payload.Token
		r.currentURL = r.desc.BaseQuery + r.desc.ContinueParam + url.QueryEscape(r.token)
	}

	r.logger.Debug().
		Str("base_query", r.desc.BaseQuery).
		Int("requests", r.requestCount).
		Msg("Descriptor complete")

	return r.acc.value(r.desc.ResultName), nil
}
