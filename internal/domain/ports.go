package domain

import "context"

// ReviewReadScope is the permission requested for every credential.
const ReviewReadScope = "https://www.googleapis.com/auth/androidpublisher"

type CredentialProvider interface {
	// Token returns a bearer token for ReviewReadScope.
	Token(ctx context.Context) (string, error)
}

type ReviewSource interface {
	FetchReviews(ctx context.Context, token, sourceID string, limit int) ([]RawReview, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
