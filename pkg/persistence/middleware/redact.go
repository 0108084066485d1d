package middleware

import (
	"context"
	"regexp"

	"github.com/arvel0/canopy/pkg/domain"
	"github.com/arvel0/canopy/pkg/ports"
)

type redactMiddleware struct {
	next     ports.ResultStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks output values whose
// keys match the patterns before they reach the backing store. Typical
// patterns cover credentials echoed back by a prompt, e.g. "(?i)api_key".
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ResultStore) ports.ResultStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, result *domain.Result) error {
	// Clone so the in-memory result handed back to the host keeps its
	// original outputs.
	cloned := *result
	cloned.Outputs = deepCopyMap(result.Outputs)

	maskMap(cloned.Outputs, m.patterns)

	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, invocationID string) (*domain.Result, error) {
	return m.next.Load(ctx, invocationID)
}

func (m *redactMiddleware) Delete(ctx context.Context, invocationID string) error {
	return m.next.Delete(ctx, invocationID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		// Handle nested maps
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		// Check key against patterns
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
