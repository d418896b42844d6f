// Copyright 2025 Poiesic Systems
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


package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNilProvider indicates a nil provider was registered.
	ErrNilProvider = errors.New("provider cannot be nil")

	// ErrEmptyName indicates a provider reported an empty name.
	ErrEmptyName = errors.New("provider name cannot be empty")

	// ErrDuplicateProvider indicates a name was registered twice.
	ErrDuplicateProvider = errors.New("provider already registered")

	// ErrUnexpectedStatus indicates a non-2xx HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrMalformedResponse indicates a response body could not be parsed.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidMaxAttempts indicates that maxAttempts must be greater than 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidTimeout indicates a non-positive HTTP timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// StatusError reports a non-2xx response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// retryable reports whether the status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
