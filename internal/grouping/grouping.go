// Package grouping partitions flat sequences into ordered buckets.
package grouping

// Index maps keys to buckets. Keys iterate in first-seen order; items inside a
// bucket keep their input order. An Index is built once by Group and never
// patched afterwards.
type Index[K comparable, T any] struct {
	keys    []K
	buckets map[K][]T
}

// Group partitions items by keyOf. Keys are not sorted.
func Group[T any, K comparable](items []T, keyOf func(T) K) *Index[K, T] {
	idx := &Index[K, T]{buckets: map[K][]T{}}
	for _, it := range items {
		k := keyOf(it)
		bucket, ok := idx.buckets[k]
		if !ok {
			idx.keys = append(idx.keys, k)
		}
		idx.buckets[k] = append(bucket, it)
	}
	return idx
}

// Empty returns an index with no keys.
func Empty[K comparable, T any]() *Index[K, T] {
	return &Index[K, T]{buckets: map[K][]T{}}
}

func (idx *Index[K, T]) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.keys)
}

// Keys returns a copy of the keys in first-seen order.
func (idx *Index[K, T]) Keys() []K {
	if idx == nil {
		return nil
	}
	out := make([]K, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Get returns a copy of the bucket for k.
func (idx *Index[K, T]) Get(k K) ([]T, bool) {
	if idx == nil {
		return nil, false
	}
	bucket, ok := idx.buckets[k]
	if !ok {
		return nil, false
	}
	out := make([]T, len(bucket))
	copy(out, bucket)
	return out, true
}

// Each visits buckets in key order.
func (idx *Index[K, T]) Each(fn func(k K, items []T)) {
	if idx == nil {
		return
	}
	for _, k := range idx.keys {
		items, _ := idx.Get(k)
		fn(k, items)
	}
}
