package domain

const (
	DefaultAuthor  = "Anonymous"
	DefaultContext = "General"
	DefaultRating  = 5

	MinRating = 1
	MaxRating = 5

	// MaxReviews caps how many records are requested from and accepted off a source.
	MaxReviews = 10
)

// Review is the normalized display schema. Every field is populated after normalization.
type Review struct {
	Author  string `json:"author" yaml:"author"`
	Context string `json:"context" yaml:"context"`
	Rating  int    `json:"rating" yaml:"rating"`
	Text    string `json:"text" yaml:"text"`
}

// RawReview is one platform-specific record as decoded from the source body.
type RawReview = map[string]any

// ReviewsResponse is the stable contract served to the display layer.
type ReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

// WithDefaults fills blank author/context and out-of-range ratings. Text is left as is.
func (r Review) WithDefaults() Review {
	if r.Author == "" {
		r.Author = DefaultAuthor
	}
	if r.Context == "" {
		r.Context = DefaultContext
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		r.Rating = ClampRating(r.Rating)
	}
	return r
}

// ClampRating forces n into 1..5; zero means "unset" and yields DefaultRating.
func ClampRating(n int) int {
	switch {
	case n == 0:
		return DefaultRating
	case n < MinRating:
		return MinRating
	case n > MaxRating:
		return MaxRating
	}
	return n
}
