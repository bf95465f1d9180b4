package columns

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RegistryUser struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func TestColumnRegistryGetCached(t *testing.T) {
	registry := NewColumnRegistry()

	first := registry.Get(`"`, &RegistryUser{})
	second := registry.Get(`"`, RegistryUser{})
	third := registry.Get(`"`, reflect.TypeOf(&RegistryUser{}))

	assert.Same(t, first, second)
	assert.Same(t, first, third)
}

func TestColumnRegistryQuoteIsolation(t *testing.T) {
	registry := NewColumnRegistry()

	ansi := registry.Get(`"`, &RegistryUser{})
	mysql := registry.Get("`", &RegistryUser{})

	assert.NotSame(t, ansi, mysql)
	assert.Equal(t, `"name"`, ansi.Get("Name"))
	assert.Equal(t, "`name`", mysql.Get("Name"))
}

func TestColumnRegistryInvalidStruct(t *testing.T) {
	registry := NewColumnRegistry()

	_, err := registry.Lookup(`"`, &EmptyStruct{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse struct EmptyStruct")

	_, err = registry.Lookup(`"`, nil)
	assert.Error(t, err)

	assert.Panics(t, func() { registry.Get(`"`, &EmptyStruct{}) })
}

func TestColumnRegistryConcurrentFirstUse(t *testing.T) {
	registry := NewColumnRegistry()

	const goroutines = 16
	results := make([]*ColumnMetadata, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = registry.Get(`"`, &RegistryUser{})
		}()
	}
	wg.Wait()

	for _, m := range results[1:] {
		assert.Same(t, results[0], m)
	}
}

func TestColumnRegistryClear(t *testing.T) {
	registry := NewColumnRegistry()
	before := registry.Get(`"`, &RegistryUser{})

	registry.Clear()

	assert.NotSame(t, before, registry.Get(`"`, &RegistryUser{}))
}

func TestGlobalRegistryHelpers(t *testing.T) {
	metadata := RegisterColumns(`"`, &RegistryUser{})
	looked, err := LookupColumns(`"`, &RegistryUser{})

	require.NoError(t, err)
	assert.Same(t, metadata, looked)
}
