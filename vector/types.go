package vector

import "github.com/outfield/retriever/core"

// Match pairs a record id with its semantic similarity to a query.
// Score is always in [0, 1]; a Source clamps anything its backend
// produces outside that range.
type Match struct {
	ID    core.ID
	Score float64
}
