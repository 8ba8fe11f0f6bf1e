package credentials

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"store_reviews/internal/domain"
)

// ServiceAccount mints tokens from a Google service-account key. Nothing is cached between
// calls; every Token call performs its own exchange.
type ServiceAccount struct {
	cfg *jwt.Config
	hc  *http.Client
}

// NewServiceAccount parses a JSON key. tokenURL overrides the key's token endpoint when set.
func NewServiceAccount(key []byte, tokenURL string, timeout time.Duration) (*ServiceAccount, error) {
	cfg, err := google.JWTConfigFromJSON(key, domain.ReviewReadScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	if tokenURL != "" {
		cfg.TokenURL = tokenURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ServiceAccount{cfg: cfg, hc: &http.Client{Timeout: timeout}}, nil
}

func NewServiceAccountFromFile(path, tokenURL string, timeout time.Duration) (*ServiceAccount, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	return NewServiceAccount(b, tokenURL, timeout)
}

// Token exchanges a signed assertion for an access token. The exchange itself does not
// watch ctx, so the call returns as soon as ctx is done and abandons the exchange.
func (s *ServiceAccount) Token(ctx context.Context) (string, error) {
	type result struct {
		tok *oauth2.Token
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tok, err := s.cfg.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, s.hc)).Token()
		ch <- result{tok, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("exchange service account token: %w", r.err)
		}
		if !r.tok.Valid() {
			return "", fmt.Errorf("%w: token endpoint returned an unusable token", domain.ErrNoCredential)
		}
		return r.tok.AccessToken, nil
	}
}

// Email identifies the account in logs.
func (s *ServiceAccount) Email() string { return s.cfg.Email }
