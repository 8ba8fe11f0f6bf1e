package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"store_reviews/internal/adapters/observability"
	"store_reviews/internal/domain"
)

const DefaultTimeout = 8 * time.Second

// ReviewFacade fetches live reviews for a source and falls back to a static dataset on any failure.
type ReviewFacade struct {
	creds    domain.CredentialProvider
	source   domain.ReviewSource
	fallback func() []domain.Review
	timeout  time.Duration
	log      zerolog.Logger
}

// NewReviewFacade wires the collaborators. fallback must return a fresh copy on every call.
func NewReviewFacade(c domain.CredentialProvider, s domain.ReviewSource, fallback func() []domain.Review, timeout time.Duration, l zerolog.Logger) *ReviewFacade {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ReviewFacade{creds: c, source: s, fallback: fallback, timeout: timeout, log: l}
}

// FetchReviews never fails: a failed fetch yields the fallback dataset.
func (f *ReviewFacade) FetchReviews(ctx context.Context, sourceID string) []domain.Review {
	return f.Collapse(f.Fetch(ctx, sourceID))
}

// Collapse turns a Result into what the display layer shows.
func (f *ReviewFacade) Collapse(res domain.Result) []domain.Review {
	if res.Live() {
		return res.Reviews
	}
	return f.fallback()
}

// Fetch performs a single attempt and reports how it went. Failures are logged here.
func (f *ReviewFacade) Fetch(ctx context.Context, sourceID string) domain.Result {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		observability.ObserveFallback(string(domain.KindInput))
		f.log.Info().Str("kind", string(domain.KindInput)).Msg("empty source id, serving fallback reviews")
		return domain.Result{Failure: domain.NewError(domain.KindInput, "", domain.ErrNoSourceID)}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reviews, ferr := f.fetch(ctx, sourceID)
	if ferr != nil {
		observability.ObserveFallback(string(ferr.Kind))
		f.log.Warn().
			Str("source_id", sourceID).
			Str("kind", string(ferr.Kind)).
			Err(ferr.Err).
			Msg("review fetch failed, serving fallback reviews")
		return domain.Result{Failure: ferr}
	}
	return domain.Result{Reviews: reviews}
}

func (f *ReviewFacade) fetch(ctx context.Context, sourceID string) ([]domain.Review, *domain.FetchError) {
	if f.creds == nil {
		return nil, domain.NewError(domain.KindCredential, sourceID, domain.ErrNoCredential)
	}
	token, err := f.creds.Token(ctx)
	if err != nil {
		kind := domain.KindCredential
		if ctx.Err() != nil {
			kind = domain.KindTransport
		}
		return nil, domain.NewError(kind, sourceID, err)
	}

	raw, err := f.source.FetchReviews(ctx, token, sourceID, domain.MaxReviews)
	if err != nil {
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			return nil, domain.NewError(fe.Kind, sourceID, fe.Err)
		}
		return nil, domain.NewError(domain.KindOf(err), sourceID, err)
	}

	out := mapReviews(raw, domain.MaxReviews)
	if len(out) == 0 {
		return nil, domain.NewError(domain.KindResponse, sourceID, domain.ErrEmptyResult)
	}
	return out, nil
}
