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

package retrieval

import (
	"fmt"
	"strings"

	"github.com/archiva-systems/docbase/core"
)

const scopePrefix = "Context: "

const answerSystemPrompt = `You answer questions using only the provided document excerpts.
If the excerpts do not contain the answer, say so plainly. Do not invent sources.`

// parseScope splits an optional "Context: <filename>." directive off the
// front of a query. The directive scopes retrieval to one document and is
// never embedded as part of the query text.
func parseScope(query string) (scope, rest string) {
	if !strings.HasPrefix(query, scopePrefix) {
		return "", query
	}
	tail := query[len(scopePrefix):]
	// Filenames may themselves contain dots, so the directive ends at the
	// first dot followed by whitespace, or at a trailing dot.
	if dot := strings.Index(tail, ". "); dot > 0 {
		return strings.TrimSpace(tail[:dot]), strings.TrimSpace(tail[dot+1:])
	}
	if len(tail) > 1 && strings.HasSuffix(tail, ".") {
		return strings.TrimSpace(tail[:len(tail)-1]), ""
	}
	return "", query
}

// assemblePrompt builds the augmented prompt: retrieved excerpts with
// provenance headers, then the question.
func assemblePrompt(question string, chunks []*core.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Document excerpts:\n\n")
	for _, sc := range chunks {
		fmt.Fprintf(&b, "[%s, page %d]\n%s\n\n", sc.Filename, sc.Chunk.Page, sc.Chunk.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// normalizeQuery canonicalizes a query for cache keying: lowercased with
// whitespace runs collapsed.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
