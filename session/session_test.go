package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surfbot/content"
	"surfbot/search"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository(time.Hour)

	_, ok := repo.Get("alice")
	assert.False(t, ok)

	s := New()
	repo.Put("alice", s)

	got, ok := repo.Get("alice")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = repo.Get("bob")
	assert.False(t, ok, "sessions are partitioned by user")

	repo.Delete("alice")
	_, ok = repo.Get("alice")
	assert.False(t, ok)
}

func TestSessionDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, ModeChat, s.Mode)
	assert.Equal(t, ActionNone, s.LastAction)
	assert.Empty(t, s.Query)
	assert.Empty(t, s.CurrentURL)
}

func TestSetResultsEntersBrowseAndClearsView(t *testing.T) {
	s := New()
	s.SetPage(&content.Page{SourceURL: "https://example.com/old"})
	s.Cursor = 300

	s.SetResults(&search.ResultSet{Query: "cats"})

	assert.Equal(t, ModeBrowse, s.Mode)
	assert.Equal(t, ActionSearch, s.LastAction)
	assert.Equal(t, "cats", s.Query)
	assert.Nil(t, s.Page)
	assert.Empty(t, s.CurrentURL)
	assert.Zero(t, s.ResultID)
	assert.Zero(t, s.Cursor)
}

func TestSetPageRewindsCursor(t *testing.T) {
	s := New()
	s.Cursor = 1500

	s.SetPage(&content.Page{SourceURL: "https://example.com/new"})

	assert.Equal(t, "https://example.com/new", s.CurrentURL)
	assert.Zero(t, s.Cursor)
}

func TestReset(t *testing.T) {
	s := New()
	s.SetResults(&search.ResultSet{Query: "cats"})
	s.Reset()

	assert.Equal(t, ModeChat, s.Mode)
	assert.Equal(t, ActionNone, s.LastAction)
	assert.Empty(t, s.Query)
	assert.Nil(t, s.Results)
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()

	var mu sync.Mutex
	counts := make(map[string]int)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("alice")
			defer unlock()
			mu.Lock()
			counts["alice"]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counts["alice"])
}
