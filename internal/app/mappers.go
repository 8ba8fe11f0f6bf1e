package app

import (
	"math"
	"strconv"
	"strings"

	"store_reviews/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Paths are tried in order; numeric segments index into arrays.
var reviewAliases = map[string][]string{
	"author": {"authorName", "author", "author.name", "userName", "reviewer.name"},
	"context": {
		"context",
		"comments.0.userComment.device",
		"comments.0.userComment.appVersionName",
		"comments.0.userComment.reviewerLanguage",
	},
	"rating": {"rating", "starRating", "comments.0.userComment.starRating", "score"},
	"text":   {"text", "comments.0.userComment.text", "comment", "body"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths over maps and arrays.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// firstNonBlank: first alias whose value is a string with visible characters.
func firstNonBlank(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

// firstPresent: first alias holding a string at all; an empty string still counts.
func firstPresent(m map[string]any, key string) (string, bool) {
	for _, p := range reviewAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0").
func getFloatFlexible(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

/********** reviews mapper **********/

func mapReview(r domain.RawReview) domain.Review {
	var rv domain.Review
	rv.Author = firstNonBlank(r, "author")
	rv.Context = firstNonBlank(r, "context")
	if t, ok := firstPresent(r, "text"); ok {
		rv.Text = t
	}
	if f, ok := getFloatFlexible(r, reviewAliases["rating"]...); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		n := int(math.Round(f))
		if n == 0 {
			n = domain.MinRating // a real zero score is the bottom of the scale, not "unset"
		}
		rv.Rating = n
	}
	return rv.WithDefaults()
}

// mapReviews normalizes at most limit records.
func mapReviews(in []domain.RawReview, limit int) []domain.Review {
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		if r == nil {
			continue
		}
		out = append(out, mapReview(r))
	}
	return out
}
