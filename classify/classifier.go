// Copyright 2026 Archiva Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package classify labels documents with a category.
//
// The primary path is a zero-shot call to the generation capability. Any
// failure of that path (network error, timeout, malformed response) falls
// back to deterministic rule-based labeling, so classification is total:
// every document gets a label and no error ever escapes this package.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/archiva-systems/docbase/ai"
)

// Known category labels. The label set is open: the model may produce other
// labels, but the rule-based fallback only ever produces one of these.
const (
	CategoryMission = "Mission"
	CategoryTech    = "Tech"
	CategoryPicture = "Picture"
	CategoryGeneral = "General"
)

// maxSampleRunes bounds how much document text is sent to the model.
const maxSampleRunes = 2000

const systemPrompt = `You classify documents into a single category.

Output ONLY valid JSON of the form {"category": "<label>"}. Do not include any
preamble, explanation, or text outside the JSON object. Prefer one of these
labels when it fits: Mission, Tech, Picture, General. Use a different short
label only when none of them fits.`

// Classifier assigns a category label to a document.
type Classifier struct {
	generator ai.Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout bounds the zero-shot call. Default is 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Classifier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier. The generator may be nil, in which case only the
// rule-based fallback is used.
func New(generator ai.Generator, opts ...Option) *Classifier {
	c := &Classifier{
		generator: generator,
		timeout:   10 * time.Second,
		logger:    slog.Default().With("component", "classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// categoryResponse matches the JSON structure expected from the model.
type categoryResponse struct {
	Category string `json:"category"`
}

// Classify returns a category label for the document. It never fails: when
// the zero-shot path errors out it collapses to the rule-based fallback.
func (c *Classifier) Classify(ctx context.Context, filename, text string) string {
	if c.generator != nil {
		if label, ok := c.zeroShot(ctx, filename, text); ok {
			return label
		}
	}
	return FallbackLabel(filename, text)
}

// zeroShot asks the generation capability for a label. The bool result is
// false on any failure, including unparseable output.
func (c *Classifier) zeroShot(ctx context.Context, filename, text string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sample := []rune(text)
	if len(sample) > maxSampleRunes {
		sample = sample[:maxSampleRunes]
	}

	prompt := fmt.Sprintf("Filename: %s\n\nDocument text:\n%s", filename, string(sample))

	response, err := c.generator.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		c.logger.Warn("zero-shot classification failed, using fallback",
			"filename", filename, "err", err)
		return "", false
	}

	// Strip markdown code fences if present
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var parsed categoryResponse
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		c.logger.Warn("unparseable classification response, using fallback",
			"filename", filename, "response", response, "err", err)
		return "", false
	}

	label := strings.TrimSpace(parsed.Category)
	if label == "" {
		return "", false
	}

	c.logger.Debug("zero-shot classification", "filename", filename, "category", label)
	return label, true
}
