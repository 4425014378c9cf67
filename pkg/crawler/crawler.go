package crawler

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/vplan-fr/stundenplan24-wrapper/pkg/client"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/endpoints"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/plan"
	"github.com/vplan-fr/stundenplan24-wrapper/pkg/reconcile"
)

// Fetcher is the slice of the client facade the crawler needs.
type Fetcher interface {
	Fetch(ctx context.Context, key endpoints.Key, options client.FetchOptions) (*plan.PlanDocument, error)
}

// Crawler keeps a local history of plan revisions for a window of days
// around today. Retry and parallelism live here, on the caller side of the
// facade - the facade itself never retries.
type Crawler struct {
	fetcher Fetcher
	store   *RevisionStore
	key     endpoints.Key

	LookBack    int
	LookForward int
	MaxFetchers int
	MaxRetries  uint64
}

func New(fetcher Fetcher, store *RevisionStore, key endpoints.Key) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		store:   store,
		key:     key,

		LookBack:    10,
		LookForward: 10,
		MaxFetchers: 4,
		MaxRetries:  3,
	}
}

// UpdateSpan fetches every day in the look-back/look-forward window around
// today. Days the provider no longer serves are skipped silently.
func (c *Crawler) UpdateSpan(ctx context.Context, today time.Time) error {
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(c.MaxFetchers)

	first := today.AddDate(0, 0, -c.LookBack)
	last := today.AddDate(0, 0, c.LookForward)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		day := day

		p.Go(func(ctx context.Context) error {
			_, err := c.FetchDay(ctx, day)
			if errors.Is(err, client.ErrDocumentUnavailable) {
				return nil
			}

			return err
		})
	}

	return p.Wait()
}

// FetchDay fetches one day's plan, stores the new revision and returns it
// merged with the newest previously stored revision. When the provider has
// no document for the date, the stored document is returned untouched.
func (c *Crawler) FetchDay(ctx context.Context, date time.Time) (*plan.PlanDocument, error) {
	previous, err := c.store.Latest(date)
	if err != nil {
		return nil, err
	}

	document, err := c.fetchWithRetry(ctx, date)
	if err != nil {
		if errors.Is(err, client.ErrDocumentUnavailable) && previous != nil {
			log.Debug().
				Time("date", date).
				Msg("Plan unavailable, keeping stored revision")

			return previous, nil
		}

		return nil, err
	}

	if err := c.store.Save(document); err != nil {
		return nil, err
	}

	if previous == nil {
		return document, nil
	}

	return reconcile.Merge(previous, document)
}

func (c *Crawler) fetchWithRetry(ctx context.Context, date time.Time) (*plan.PlanDocument, error) {
	operation := func() (*plan.PlanDocument, error) {
		document, err := c.fetcher.Fetch(ctx, c.key, client.FetchOptions{Date: date})

		// Caller errors and missing documents never resolve by
		// retrying.
		if errors.Is(err, client.ErrDocumentUnavailable) ||
			errors.Is(err, client.ErrInvalidParameters) ||
			errors.Is(err, client.ErrUnauthorized) ||
			errors.Is(err, endpoints.ErrUnknownEndpoint) ||
			errors.Is(err, plan.ErrMalformedDocument) {
			return nil, backoff.Permanent(err)
		}

		return document, err
	}

	return backoff.RetryWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries), ctx),
	)
}
