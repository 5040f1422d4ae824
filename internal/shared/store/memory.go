package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Memory is an in-process Store used by the test suite and local runs
// without AWS credentials. A single mutex serializes every operation, which
// trivially gives each transaction the linearizable-per-key ordering the
// contract asks for.
type Memory struct {
	mu         sync.Mutex
	partitions map[string]map[string]Item
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{partitions: make(map[string]map[string]Item)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(ctx context.Context, pk, sk string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.partitions[pk][sk]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", pk, sk, ErrNotFound)
	}
	return item.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(item)
	return nil
}

func (m *Memory) Query(ctx context.Context, pk string) ([]Item, error) {
	return m.QueryPrefix(ctx, pk, "")
}

func (m *Memory) QueryPrefix(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Item
	for sk, item := range m.partitions[pk] {
		if skPrefix == "" || strings.HasPrefix(sk, skPrefix) {
			items = append(items, item.Clone())
		}
	}
	sortBySK(items)
	return items, nil
}

func (m *Memory) Scan(ctx context.Context, filter ScanFilter) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []Item
	for _, partition := range m.partitions {
		for sk, item := range partition {
			if filter.SKPrefix != "" && !strings.HasPrefix(sk, filter.SKPrefix) {
				continue
			}
			if !attributesMatch(item, filter.Equals) {
				continue
			}
			items = append(items, item.Clone())
		}
	}
	sortBySK(items)
	return items, nil
}

func (m *Memory) UpdateConditional(ctx context.Context, pk, sk string, upd Update, cond *Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkLocked(pk, sk, cond); err != nil {
		return err
	}
	m.applyUpdateLocked(pk, sk, upd)
	return nil
}

func (m *Memory) TransactWrite(ctx context.Context, ops []WriteOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All predicates are checked before any write applies, mirroring the
	// all-or-nothing contract of the hosted store.
	for i, op := range ops {
		var err error
		switch {
		case op.Put != nil:
			err = m.checkLocked(op.Put.Item.PK(), op.Put.Item.SK(), op.Put.Condition)
		case op.Update != nil:
			err = m.checkLocked(op.Update.PK, op.Update.SK, op.Update.Condition)
		case op.Delete != nil:
			err = m.checkLocked(op.Delete.PK, op.Delete.SK, op.Delete.Condition)
		default:
			err = fmt.Errorf("transact op %d: empty write op", i)
		}
		if err != nil {
			return fmt.Errorf("transact op %d: %w", i, &canceledError{cause: err})
		}
	}

	for _, op := range ops {
		switch {
		case op.Put != nil:
			m.putLocked(op.Put.Item)
		case op.Update != nil:
			m.applyUpdateLocked(op.Update.PK, op.Update.SK, op.Update.Update)
		case op.Delete != nil:
			delete(m.partitions[op.Delete.PK], op.Delete.SK)
		}
	}
	return nil
}

// canceledError matches both ErrTransactionCanceled and, when the cause is a
// predicate violation, ErrConditionFailed.
type canceledError struct {
	cause error
}

func (e *canceledError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTransactionCanceled, e.cause)
}

func (e *canceledError) Is(target error) bool {
	return target == ErrTransactionCanceled
}

func (e *canceledError) Unwrap() error { return e.cause }

func (m *Memory) putLocked(item Item) {
	pk, sk := item.PK(), item.SK()
	if m.partitions[pk] == nil {
		m.partitions[pk] = make(map[string]Item)
	}
	m.partitions[pk][sk] = item.Clone()
}

// checkLocked evaluates a predicate against the current item at (pk, sk).
// Absent items fail Equals/Exists clauses and pass NotExists clauses.
func (m *Memory) checkLocked(pk, sk string, cond *Condition) error {
	if cond == nil {
		return nil
	}
	existing, present := m.partitions[pk][sk]

	for attr, want := range cond.Equals {
		if !present || !valuesEqual(existing[attr], want) {
			return fmt.Errorf("condition %s = %v on %s/%s: %w", attr, want, pk, sk, ErrConditionFailed)
		}
	}
	for _, attr := range cond.Exists {
		if !present || !existing.Has(attr) {
			return fmt.Errorf("condition attribute_exists(%s) on %s/%s: %w", attr, pk, sk, ErrConditionFailed)
		}
	}
	for _, attr := range cond.NotExists {
		if present && existing.Has(attr) {
			return fmt.Errorf("condition attribute_not_exists(%s) on %s/%s: %w", attr, pk, sk, ErrConditionFailed)
		}
	}
	return nil
}

// applyUpdateLocked mutates the item at (pk, sk), creating it when absent
// the way an unconditional hosted update would.
func (m *Memory) applyUpdateLocked(pk, sk string, upd Update) {
	if m.partitions[pk] == nil {
		m.partitions[pk] = make(map[string]Item)
	}
	item, ok := m.partitions[pk][sk]
	if !ok {
		item = Item{"pk": pk, "sk": sk}
		m.partitions[pk][sk] = item
	}
	for attr, value := range upd.Set {
		item[attr] = value
	}
	for attr, delta := range upd.Add {
		item[attr] = item.Int(attr) + delta
	}
}

func attributesMatch(item Item, equals map[string]interface{}) bool {
	for attr, want := range equals {
		if !valuesEqual(item[attr], want) {
			return false
		}
	}
	return true
}

// valuesEqual compares attribute values across the numeric types an item
// can carry, so a price stored as decimal still matches a float probe.
func valuesEqual(got, want interface{}) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	if gd, ok := toDecimal(got); ok {
		if wd, ok := toDecimal(want); ok {
			return gd.Equal(wd)
		}
		return false
	}
	return got == want
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Decimal{}, false
}

func sortBySK(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].SK() < items[j].SK() })
}
