package credentials

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"store_reviews/internal/domain"
)

// FromConfig prefers a service-account key file and falls back to a static token.
// A missing key file is not fatal: the provider then fails every call, which the
// facade turns into fallback reviews.
func FromConfig(keyFile, tokenURL, staticToken string, timeout time.Duration) domain.CredentialProvider {
	if keyFile != "" {
		sa, err := NewServiceAccountFromFile(keyFile, tokenURL, timeout)
		if err == nil {
			log.Info().Str("account", sa.Email()).Msg("using service account credentials")
			return sa
		}
		log.Error().Err(err).Str("file", keyFile).Msg("service account unusable")
		if staticToken == "" {
			return failing{err: err}
		}
	}
	return NewStatic(staticToken)
}

type failing struct{ err error }

func (f failing) Token(context.Context) (string, error) { return "", f.err }
