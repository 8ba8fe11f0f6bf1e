// Package credentials supplies bearer tokens scoped to review reads.
package credentials

import (
	"context"
	"strings"

	"store_reviews/internal/domain"
)

// Static hands out a preissued token.
type Static struct{ token string }

func NewStatic(token string) *Static { return &Static{token: strings.TrimSpace(token)} }

func (s *Static) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}
