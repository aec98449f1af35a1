package badger

import (
	"fmt"

	"github.com/outfield/retriever/core"
)

// Key prefixes for different data types. The trailing colon in each
// formatted key keeps the record keyspace disjoint from the index
// keyspace ("rec:" never prefixes a "reccat:" key).
const (
	recordPrefix         = "rec"
	recordCategoryPrefix = "reccat"
)

// makeRecordKey generates a key for a record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s", recordPrefix, id))
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeCategoryKey(category string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", recordCategoryPrefix, category, id))
}

// makePartialCategoryKey generates a partial key for category scans.
// Format: prefix:category:
func makePartialCategoryKey(category string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", recordCategoryPrefix, category))
}
