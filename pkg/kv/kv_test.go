package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	store, err := NewStore(conn)
	assert.NoError(t, err)
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Set("greeting", "hello"))

	value, ok := store.Get("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestSetOverwrites(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Set("counter", "one"))
	assert.NoError(t, store.Set("counter", "two"))

	value, ok := store.Get("counter")
	assert.True(t, ok)
	assert.Equal(t, "two", value)

	var count int64
	assert.NoError(t, store.conn.Model(&Entry{}).Where("key = ?", "counter").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIntAndBoolHelpers(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.SetInt("progress", 42))
	n, ok := store.GetInt("progress")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = store.GetInt("absent")
	assert.False(t, ok)

	assert.NoError(t, store.Set("garbage", "not-a-number"))
	_, ok = store.GetInt("garbage")
	assert.False(t, ok)

	assert.NoError(t, store.SetBool("done", true))
	assert.True(t, store.GetBool("done"))
	assert.False(t, store.GetBool("never-set"))
}

func TestJSONHelpers(t *testing.T) {
	store := newTestStore(t)

	type payload struct {
		Name  string         `json:"name"`
		Count int            `json:"count"`
		Tags  map[string]int `json:"tags"`
	}

	in := payload{Name: "analytics", Count: 3, Tags: map[string]int{"a": 1}}
	assert.NoError(t, store.SetJSON("blob", in))

	var out payload
	assert.NoError(t, store.GetJSON("blob", &out))
	assert.Equal(t, in, out)

	err := store.GetJSON("missing", &out)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Set("ephemeral", "x"))
	assert.NoError(t, store.Delete("ephemeral"))

	_, ok := store.Get("ephemeral")
	assert.False(t, ok)

	// Deleting again is not an error.
	assert.NoError(t, store.Delete("ephemeral"))
}
