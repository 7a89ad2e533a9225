package answercache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetIfAbsentThenGet(t *testing.T) {
	s := NewMemoryStore(4)
	stored, err := s.SetIfAbsent("k1", []byte("v1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	v, ok := s.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
}

func TestMemoryStore_SetIfAbsentDoesNotOverwrite(t *testing.T) {
	s := NewMemoryStore(4)
	_, _ = s.SetIfAbsent("k1", []byte("v1"), time.Minute)

	stored, err := s.SetIfAbsent("k1", []byte("v2"), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	v, _ := s.Get("k1")
	assert.Equal(t, []byte("v1"), v)
}

func TestMemoryStore_ExpiredEntryIsAMiss(t *testing.T) {
	s := NewMemoryStore(4)
	_, _ = s.SetIfAbsent("k1", []byte("v1"), 1*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, ok := s.Get("k1")
	assert.False(t, ok)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(4)
	_, _ = s.SetIfAbsent("k1", []byte("v1"), time.Minute)
	require.NoError(t, s.Clear())

	_, ok := s.Get("k1")
	assert.False(t, ok)
}
