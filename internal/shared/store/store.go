// Package store defines the keyed-item persistence contract the reservation
// core runs on: a single table of (pk, sk) items with conditional writes and
// atomic multi-item transactions. The production implementation is DynamoDB;
// tests inject the in-memory implementation.
package store

import (
	"context"
	"errors"
)

// Sentinel errors. Implementations wrap these so callers can branch with
// errors.Is regardless of backend.
var (
	// ErrNotFound is returned by Get when no item exists at (pk, sk).
	ErrNotFound = errors.New("store: item not found")

	// ErrConditionFailed is returned when a conditional write's predicate
	// does not hold against the current item.
	ErrConditionFailed = errors.New("store: conditional check failed")

	// ErrTransactionCanceled is returned when a TransactWrite batch is
	// rejected as a whole. When the cause is a predicate violation the
	// returned error also matches ErrConditionFailed.
	ErrTransactionCanceled = errors.New("store: transaction canceled")
)

// Condition is a predicate evaluated against the current item at a key
// before a write applies. All clauses must hold.
//
// Following DynamoDB semantics: Equals and Exists fail when the item itself
// is absent; NotExists passes when the item is absent.
type Condition struct {
	// Equals requires attribute == value for each entry.
	Equals map[string]interface{}
	// Exists requires each named attribute to be present and non-null.
	Exists []string
	// NotExists requires each named attribute to be absent or null.
	NotExists []string
}

// Update describes an in-place mutation of a single item.
type Update struct {
	// Set assigns attribute values. A nil value clears the attribute
	// (written as NULL, reported as absent by Condition.Exists).
	Set map[string]interface{}
	// Add increments numeric attributes, creating them at the delta when
	// absent. Used only for the event analytics counters.
	Add map[string]int
}

// PutOp writes a full item, replacing any existing item at its key.
type PutOp struct {
	Item      Item
	Condition *Condition
}

// UpdateOp mutates the item at (PK, SK).
type UpdateOp struct {
	PK, SK    string
	Update    Update
	Condition *Condition
}

// DeleteOp removes the item at (PK, SK).
type DeleteOp struct {
	PK, SK    string
	Condition *Condition
}

// WriteOp is one member of a TransactWrite batch. Exactly one field is set.
type WriteOp struct {
	Put    *PutOp
	Update *UpdateOp
	Delete *DeleteOp
}

// ScanFilter selects items across partitions. Scans back the two
// cross-partition lookups the core needs (hold-by-id, booking-by-id);
// everything else queries a single partition.
type ScanFilter struct {
	// Equals requires attribute == value for each entry.
	Equals map[string]interface{}
	// SKPrefix, when set, requires begins_with(sk, SKPrefix).
	SKPrefix string
}

// Store is the persistence contract over the single events table. Each
// transaction is linearizable with respect to other transactions touching
// overlapping keys; nothing stronger is assumed.
type Store interface {
	// Get fetches the item at (pk, sk), ErrNotFound when absent.
	Get(ctx context.Context, pk, sk string) (Item, error)

	// Put unconditionally writes an item.
	Put(ctx context.Context, item Item) error

	// Query returns all items in a partition.
	Query(ctx context.Context, pk string) ([]Item, error)

	// QueryPrefix returns partition items whose sk begins with skPrefix.
	QueryPrefix(ctx context.Context, pk, skPrefix string) ([]Item, error)

	// Scan returns all items matching the filter, across partitions.
	Scan(ctx context.Context, filter ScanFilter) ([]Item, error)

	// UpdateConditional applies a single-item mutation guarded by a
	// predicate, ErrConditionFailed when the predicate does not hold.
	UpdateConditional(ctx context.Context, pk, sk string, upd Update, cond *Condition) error

	// TransactWrite applies every op atomically: either all predicates
	// hold and all writes apply, or nothing does and the call returns
	// ErrTransactionCanceled.
	TransactWrite(ctx context.Context, ops []WriteOp) error
}
