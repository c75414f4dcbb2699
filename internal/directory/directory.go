// Package directory answers "is this a real username?" and "which
// usernames start with this prefix?" for the rich content pipeline. The
// pipeline itself never talks to storage; it receives a Directory and a
// pre-fetched valid-username set.
package directory

import (
	"context"
	"sort"
	"strings"
)

// Directory resolves usernames against the user base.
type Directory interface {
	// IsValid reports whether username belongs to an existing account.
	IsValid(ctx context.Context, username string) (bool, error)

	// ValidSet bulk-checks usernames and returns the subset that exist,
	// as a membership map ready for the renderer.
	ValidSet(ctx context.Context, usernames []string) (map[string]bool, error)

	// Search returns up to limit usernames starting with prefix, for
	// mention suggestions. Matching is case-insensitive.
	Search(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Static is an in-memory Directory over a fixed username set, for tests
// and the CLI.
type Static struct {
	names map[string]bool
}

// NewStatic builds a Static directory. Usernames are stored lowercase,
// matching the canonical storage form.
func NewStatic(usernames ...string) *Static {
	names := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		names[strings.ToLower(u)] = true
	}
	return &Static{names: names}
}

func (s *Static) IsValid(_ context.Context, username string) (bool, error) {
	return s.names[username], nil
}

func (s *Static) ValidSet(_ context.Context, usernames []string) (map[string]bool, error) {
	valid := make(map[string]bool)
	for _, u := range usernames {
		if s.names[u] {
			valid[u] = true
		}
	}
	return valid, nil
}

func (s *Static) Search(_ context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(prefix)
	var out []string
	for name := range s.names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
