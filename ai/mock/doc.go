// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	gen := mock.NewMockGenerator()
//	gen.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
//	    return "", ai.ErrRateLimited
//	}
//
// # Default Behavior
//
//   - MockEmbedder: returns deterministic unit vectors derived from text hash
//   - MockGenerator: returns canned responses matched by prompt substring
//   - MockProvider: aggregates mock embedder and generator
package mock
