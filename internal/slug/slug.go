// Package slug derives collision-resistant URL slugs from free-text titles.
// Non-Latin input is transliterated to a phonetic Latin form before
// normalization, so mixed-script titles still produce usable slugs.
package slug

import (
	"context"
	"fmt"
	"strings"

	gslug "github.com/gosimple/slug"

	"github.com/inkwell-cms/inkwell/domain"
)

// maxSuffix bounds the collision probe so a pathological owner can't send
// the generator into an unbounded scan.
const maxSuffix = 1000

// Make normalizes a title into a URL slug matching ^[a-z0-9-]+$.
// Returns ErrInvalidTitle when nothing survives normalization.
func Make(title string) (string, error) {
	s := gslug.Make(title)
	s = normalize(s)
	if s == "" {
		return "", domain.ErrInvalidTitle
	}
	return s, nil
}

// normalize collapses underscores and repeated hyphens and trims the edges.
// The transliteration step may leave either behind.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "_", "-")
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}

// SlugChecker is the slice of the article repository the generator needs.
type SlugChecker interface {
	SlugExists(ctx context.Context, ownerID int64, slug string) (bool, error)
}

// Generator produces slugs unique within one owner's scope, appending
// -1, -2, ... on collision.
type Generator struct {
	checker SlugChecker
}

// NewGenerator creates a slug generator backed by the given existence check.
func NewGenerator(checker SlugChecker) *Generator {
	return &Generator{checker: checker}
}

// ForTitle derives a slug for the title, unique among the owner's articles.
func (g *Generator) ForTitle(ctx context.Context, ownerID int64, title string) (string, error) {
	base, err := Make(title)
	if err != nil {
		return "", err
	}

	candidate := base
	for i := 1; i <= maxSuffix; i++ {
		exists, err := g.checker.SlugExists(ctx, ownerID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", domain.ErrConflict
}
