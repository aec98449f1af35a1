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


// Package search provides staged lexical search over records.
//
// The Orchestrator type runs passes in order, each only when the previous
// one found nothing:
//   - Exact weighted substring matching across content, title, category and tags
//   - Fuzzy matching by per-term edit-distance similarity
//   - Query variations produced by the optimizer, each retried exact-then-fuzzy
//   - "Did you mean" suggestions harvested from the record vocabulary
//
// Low-quality queries are rewritten before the first pass. Every search
// emits one Event to the configured Monitor.
package search
