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


// Package vector provides abstractions for the semantic-similarity side
// of hybrid search.
//
// The package defines two interfaces and two ready-made sources:
//
//   - Embedder: generates vector embeddings from text
//   - Source: answers "which record ids resemble this query" with
//     similarity scores in [0, 1]
//   - CorpusSource: a Source over an in-memory record slice, embedding
//     the corpus lazily on first use
//   - StoreSource: a Source backed by a persistent similarity index
//
// It follows the dependency inversion principle: the search and hybrid
// packages depend on these abstractions, never on a concrete embedding
// backend.
//
// # Implementation Packages
//
// Two sub-packages provide Embedder implementations:
//
//   - vector/openai: production implementation for OpenAI-compatible APIs
//   - vector/mock: test doubles for unit testing without external services
//
// # Usage Example
//
//	cfg := vector.DefaultConfig()
//	embedder, err := openai.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	source, err := vector.NewCorpusSource(embedder, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	matches, err := source.Similar(ctx, "goroutine leaks", 10)
package vector
