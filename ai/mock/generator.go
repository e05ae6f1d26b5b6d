package mock

import (
	"context"
	"strings"
	"sync"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default behavior: echo a short canned answer derived
	// from the prompt.
	GenerateFunc func(ctx context.Context, system, prompt string) (string, error)

	// Responses maps a substring of the prompt to a canned response.
	// Checked before the default behavior when GenerateFunc is nil.
	Responses map[string]string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned or derived response.
func (m *MockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, system, prompt)
	}

	for needle, response := range m.Responses {
		if strings.Contains(prompt, needle) {
			return response, nil
		}
	}

	return "mock answer", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns all prompts passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears the call count, recorded prompts and injected behavior.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
	m.Responses = nil
}
