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

// Package ingestion adds records to storage and enriches them.
//
// The Pipeline type validates incoming records, persists them (records
// without an ID receive a deterministic content-based one), then
// generates embedding vectors on a worker pool. Enrichment is
// asynchronous: its failures are logged and the record stays searchable
// through the lexical pipeline until a later pass embeds it.
package ingestion
