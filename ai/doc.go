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


// Package ai provides abstractions for the AI capabilities used by docbase.
//
// The engine consumes two external capabilities: text embedding and text
// generation. This package defines them as interfaces so the ingestion and
// retrieval components depend on abstractions rather than concrete clients,
// and can be tested with deterministic stand-ins.
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces free text from a prompt
//   - Provider: aggregates both for convenient initialization
//
// Two implementation sub-packages are included:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in the implementation packages return interface types
// to enforce abstraction; mock constructors return concrete types so tests
// can inject behavior and assert call counts.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	answer, err := provider.Generator().Generate(ctx, system, prompt)
package ai
