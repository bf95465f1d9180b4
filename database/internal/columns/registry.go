// Package columns extracts and caches the `db` tag layout of struct types, used
// to map result rows into structs and to render column lists.
package columns

import (
	"fmt"
	"reflect"
	"sync"
)

// ColumnRegistry caches struct column metadata per identifier quote.
// Struct types are parsed on first use and cached forever.
type ColumnRegistry struct {
	mu     sync.RWMutex
	caches map[string]*quoteCache
}

type quoteCache struct {
	cache sync.Map // map[reflect.Type]*ColumnMetadata
}

var globalColumnRegistry = NewColumnRegistry()

// NewColumnRegistry creates an empty registry.
func NewColumnRegistry() *ColumnRegistry {
	return &ColumnRegistry{caches: make(map[string]*quoteCache)}
}

// RegisterColumns returns the cached metadata for the struct type of structPtr
// (a struct, a pointer to one, or a reflect.Type of either).
//
// Panics if the type is not a struct with valid db tags.
func RegisterColumns(quote string, structPtr any) *ColumnMetadata {
	return globalColumnRegistry.Get(quote, structPtr)
}

// Get retrieves column metadata for a struct type, lazily parsing on first use.
func (cr *ColumnRegistry) Get(quote string, structPtr any) *ColumnMetadata {
	metadata, err := cr.Lookup(quote, structPtr)
	if err != nil {
		panic(err.Error())
	}
	return metadata
}

// Lookup is Get without the panic.
func (cr *ColumnRegistry) Lookup(quote string, structPtr any) (*ColumnMetadata, error) {
	t, ok := structPtr.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(structPtr)
	}
	if t == nil {
		return nil, fmt.Errorf("cannot register columns of nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	cache := cr.getOrCreateCache(quote)

	if cached, ok := cache.cache.Load(t); ok {
		return cached.(*ColumnMetadata), nil
	}

	metadata, err := parseStruct(quote, t)
	if err != nil {
		return nil, fmt.Errorf("failed to parse struct %s: %w", t.Name(), err)
	}

	// LoadOrStore keeps a single instance when goroutines race on first use.
	actual, _ := cache.cache.LoadOrStore(t, metadata)
	return actual.(*ColumnMetadata), nil
}

func (cr *ColumnRegistry) getOrCreateCache(quote string) *quoteCache {
	cr.mu.RLock()
	cache, ok := cr.caches[quote]
	cr.mu.RUnlock()
	if ok {
		return cache
	}

	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cache, ok := cr.caches[quote]; ok {
		return cache
	}
	cache = &quoteCache{}
	cr.caches[quote] = cache
	return cache
}

// Clear removes all cached metadata. Only call this in tests.
func (cr *ColumnRegistry) Clear() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.caches = make(map[string]*quoteCache)
}

// LookupColumns is the non-panicking form of RegisterColumns.
func LookupColumns(quote string, structPtr any) (*ColumnMetadata, error) {
	return globalColumnRegistry.Lookup(quote, structPtr)
}
