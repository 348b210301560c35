// Package keyed implements the conversation and message repositories on top
// of a single-table keyed store: items addressed by a partition key and a
// sort key, with one secondary index for recency ordering. The concrete
// engine (DynamoDB in production, an in-memory table for dev and tests)
// plugs in behind the Backend interface.
package keyed

import "context"

// Attribute names every backend understands. PK groups the items of one
// conversation; SK orders them within the group; the GSI1 pair orders
// conversations by recency.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
)

// IndexRecency is the secondary index keyed by AttrGSI1PK / AttrGSI1SK.
const IndexRecency = "GSI1"

// MaxBatchDelete is the largest chunk a single batch-delete request may
// carry (the DynamoDB BatchWriteItem limit).
const MaxBatchDelete = 25

// Item is one flat record. All attributes, key attributes included, are
// strings; timestamps are stored pre-rendered in a fixed-width layout so
// lexicographic order equals chronological order.
type Item map[string]string

// ItemKey addresses one item for deletion.
type ItemKey struct {
	PK string
	SK string
}

// QuerySpec selects items either by partition key (optionally narrowed to a
// sort-key prefix) or by a secondary index partition value. Results come
// back ordered by sort key, ascending unless Descending is set.
type QuerySpec struct {
	PK       string
	SKPrefix string

	Index   string
	IndexPK string

	Descending bool
	Limit      int
}

// Backend is the keyed store contract.
type Backend interface {
	Put(ctx context.Context, item Item) error
	// Get returns (nil, nil) when the item is absent.
	Get(ctx context.Context, pk, sk string) (Item, error)
	Query(ctx context.Context, q QuerySpec) ([]Item, error)
	// BatchDelete removes the given keys in chunks of at most MaxBatchDelete.
	// A failed chunk aborts the remaining ones; earlier chunks stay deleted.
	BatchDelete(ctx context.Context, keys []ItemKey) error
}
