// Copyright 2025 Outfield Systems
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


package vector

import "errors"

// Construction and runtime errors.
var (
	// ErrNilEmbedder is returned when a source is constructed without an embedder.
	ErrNilEmbedder = errors.New("embedder must not be nil")

	// ErrNilIndex is returned when a StoreSource is constructed without an index.
	ErrNilIndex = errors.New("similarity index must not be nil")

	// ErrEmbeddingFailed wraps errors from the underlying embedding service.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
