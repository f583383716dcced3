package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEntity struct {
	UID  string
	Name string
}

func TestPutGet(t *testing.T) {
	c := context.TODO()
	store, cleanup, err := NewInMemoryStore[testEntity](c)
	assert.NoError(t, err)
	defer cleanup()

	err = store.Put(c, "1", testEntity{UID: "1", Name: "first"})
	assert.NoError(t, err)

	got, found, err := store.Get(c, "1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", got.Name)

	_, found, err = store.Get(c, "unknown")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestList(t *testing.T) {
	c := context.TODO()
	store, cleanup, _ := NewInMemoryStore[testEntity](c)
	defer cleanup()

	for i := 0; i < 3; i++ {
		uid := fmt.Sprintf("%d", i)
		_ = store.Put(c, uid, testEntity{UID: uid})
	}

	all, err := store.List(c)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionRollbackOnError(t *testing.T) {
	c := context.TODO()
	store, cleanup, _ := NewInMemoryStore[testEntity](c)
	defer cleanup()

	err := store.RunInTransaction(c, func(c context.Context) error {
		_ = store.Put(c, "1", testEntity{UID: "1"})
		return fmt.Errorf("abort")
	})
	assert.Error(t, err)
}

func TestGetWithinTransaction(t *testing.T) {
	c := context.TODO()
	store, cleanup, _ := NewInMemoryStore[testEntity](c)
	defer cleanup()

	_ = store.Put(c, "existing", testEntity{UID: "existing"})

	err := store.RunInTransaction(c, func(c context.Context) error {
		_, found, err := store.Get(c, "existing")
		assert.NoError(t, err)
		assert.True(t, found)

		return store.Put(c, "new", testEntity{UID: "new"})
	})
	assert.NoError(t, err)

	_, found, _ := store.Get(c, "new")
	assert.True(t, found)
}
