package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// conflictRetries bounds transaction retries when Badger's optimistic
// concurrency control detects overlapping read-modify-write transactions.
const conflictRetries = 16

// Collection provides filter-based CRUD operations for one document type.
type Collection[T any] struct {
	store   *Store
	prefix  string
	indexes []index[T]
}

// index defines a unique secondary index on a collection.
type index[T any] struct {
	name      string
	keyGen    func(*T) string
	transform func(string) string // optional, applied to stored and looked-up values
}

// NewCollection creates a Collection for type T under the given key prefix.
func NewCollection[T any](s *Store, prefix string) *Collection[T] {
	return &Collection[T]{
		store:  s,
		prefix: prefix,
	}
}

// WithIndex adds a unique secondary index. The transform, when non-nil, is
// applied to both stored values and lookups, enabling case-insensitive keys.
func (c *Collection[T]) WithIndex(name string, keyGen func(*T) string, transform func(string) string) *Collection[T] {
	c.indexes = append(c.indexes, index[T]{name: name, keyGen: keyGen, transform: transform})
	return c
}

func (c *Collection[T]) key(id string) []byte {
	return []byte(c.prefix + id)
}

func (c *Collection[T]) indexKey(idx index[T], value string) []byte {
	if idx.transform != nil {
		value = idx.transform(value)
	}
	return []byte(c.prefix + "idx:" + idx.name + ":" + value)
}

// Create stores a new document under the given ID.
// Returns ErrAlreadyExists on a primary key or unique index collision.
func (c *Collection[T]) Create(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return c.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(c.key(id)); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing key: %w", err)
		}

		for _, idx := range c.indexes {
			ikey := c.indexKey(idx, idx.keyGen(doc))
			if _, err := txn.Get(ikey); err == nil {
				return fmt.Errorf("index %s collision: %w", idx.name, ErrAlreadyExists)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check index key: %w", err)
			}
		}

		if err := txn.Set(c.key(id), data); err != nil {
			return fmt.Errorf("set key: %w", err)
		}
		for _, idx := range c.indexes {
			if err := txn.Set(c.indexKey(idx, idx.keyGen(doc)), []byte(id)); err != nil {
				return fmt.Errorf("set index key: %w", err)
			}
		}
		return nil
	})
}

// Get retrieves a document by ID. Returns ErrNotFound if absent.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc T
	err := c.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(c.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByIndex retrieves a document through a unique secondary index.
func (c *Collection[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ikey []byte
	for _, idx := range c.indexes {
		if idx.name == indexName {
			ikey = c.indexKey(idx, value)
			break
		}
	}
	if ikey == nil {
		return nil, fmt.Errorf("unknown index %q on collection %q", indexName, c.prefix)
	}

	var docID string
	err := c.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ikey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			docID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return c.Get(ctx, docID)
}

// Mutate atomically applies fn to the stored document and writes the result
// back, maintaining secondary indexes. The read, the check inside fn, and the
// write are one transaction, so ownership or status guards expressed in fn
// cannot race with a concurrent mutation. An error from fn aborts the
// transaction and is returned verbatim. Returns the mutated document.
func (c *Collection[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc T
	apply := func(txn *badger.Txn) error {
		item, err := txn.Get(c.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}

		doc = *new(T)
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return fmt.Errorf("unmarshal document: %w", err)
		}

		oldIndexValues := c.indexValues(&doc)

		if err := fn(&doc); err != nil {
			return err
		}

		data, err := json.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}

		if err := c.reindex(txn, id, oldIndexValues, &doc); err != nil {
			return err
		}
		return txn.Set(c.key(id), data)
	}

	var err error
	for range conflictRetries {
		err = c.store.db.Update(apply)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteWhere atomically deletes the document if check passes. Returns
// ErrNotFound for a missing document; an error from check aborts the delete
// and is returned verbatim.
func (c *Collection[T]) DeleteWhere(ctx context.Context, id string, check func(*T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	apply := func(txn *badger.Txn) error {
		item, err := txn.Get(c.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}

		var doc T
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return fmt.Errorf("unmarshal document: %w", err)
		}

		if check != nil {
			if err := check(&doc); err != nil {
				return err
			}
		}

		for _, idx := range c.indexes {
			if err := txn.Delete(c.indexKey(idx, idx.keyGen(&doc))); err != nil {
				return fmt.Errorf("delete index key: %w", err)
			}
		}
		return txn.Delete(c.key(id))
	}

	var err error
	for range conflictRetries {
		err = c.store.db.Update(apply)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return err
}

// Delete removes a document unconditionally. Returns ErrNotFound if absent.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.DeleteWhere(ctx, id, nil)
}

// Find returns all documents matching pred, in key order.
func (c *Collection[T]) Find(ctx context.Context, pred func(*T) bool) ([]*T, error) {
	var out []*T
	for doc, err := range c.List(ctx) {
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// List returns an iterator over all documents in the collection.
func (c *Collection[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Iteration errors are delivered through yield.
		c.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(c.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(c.prefix)); it.ValidForPrefix([]byte(c.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys.
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(c.prefix):], "idx:") {
					continue
				}

				var doc T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &doc)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&doc, nil) {
					return nil // Consumer stopped early
				}
			}
			return nil
		})
	}
}

// indexValues snapshots the current index key values of a document.
func (c *Collection[T]) indexValues(doc *T) []string {
	values := make([]string, len(c.indexes))
	for i, idx := range c.indexes {
		values[i] = idx.keyGen(doc)
	}
	return values
}

// reindex replaces index entries whose values changed under a mutation,
// rejecting moves onto values already owned by another document.
func (c *Collection[T]) reindex(txn *badger.Txn, id string, oldValues []string, doc *T) error {
	for i, idx := range c.indexes {
		newValue := idx.keyGen(doc)
		oldKey := c.indexKey(idx, oldValues[i])
		newKey := c.indexKey(idx, newValue)
		if string(oldKey) == string(newKey) {
			continue
		}

		if _, err := txn.Get(newKey); err == nil {
			return fmt.Errorf("index %s collision: %w", idx.name, ErrAlreadyExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check index key: %w", err)
		}

		if err := txn.Delete(oldKey); err != nil {
			return fmt.Errorf("delete old index key: %w", err)
		}
		if err := txn.Set(newKey, []byte(id)); err != nil {
			return fmt.Errorf("set index key: %w", err)
		}
	}
	return nil
}
