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

// Package reindex re-embeds every stored record, typically after
// switching embedding models.
//
// Records are processed in batches with a bounded number of batches in
// flight. Embedding calls retry with exponential backoff, vectors are
// normalized before storage, and progress is reported to a writer.
package reindex
