// Package fallback holds the static reviews served whenever live reviews are unavailable.
package fallback

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"store_reviews/internal/domain"
)

//go:embed reviews.yaml
var embedded []byte

// Dataset is immutable once loaded. Reviews hands out copies.
type Dataset struct {
	reviews []domain.Review
}

type file struct {
	Reviews []domain.Review `yaml:"reviews"`
}

// Default returns the dataset compiled into the binary.
func Default() (*Dataset, error) {
	return Parse(embedded)
}

// Load reads an operator-provided dataset; an empty path selects the embedded one.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Dataset, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fallback reviews: %w", err)
	}
	if len(f.Reviews) == 0 {
		return nil, errors.New("fallback dataset has no reviews")
	}
	out := make([]domain.Review, len(f.Reviews))
	for i, r := range f.Reviews {
		out[i] = r.WithDefaults()
	}
	return &Dataset{reviews: out}, nil
}

func (d *Dataset) Reviews() []domain.Review {
	out := make([]domain.Review, len(d.reviews))
	copy(out, d.reviews)
	return out
}

func (d *Dataset) Len() int { return len(d.reviews) }
