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


package ai

import (
	"errors"
	"strings"
)

// ErrRateLimited indicates the external capability is throttling requests.
// Callers recover via the resilience cache or surface a degraded response.
var ErrRateLimited = errors.New("ai capability rate limited")

// IsRateLimited reports whether err represents a rate-limit condition, either
// as a wrapped ErrRateLimited or as a provider error whose message carries the
// usual throttling markers (HTTP 429, "rate limit", "resource exhausted").
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "too many requests")
}
