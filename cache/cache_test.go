// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if got := New[string, int](0).Capacity(); got != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, got)
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("expected 42, got %d (ok=%v)", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("expected overwrite to 7, got %d", val)
	}
	if c.Len() != 1 {
		t.Errorf("overwrite must not add an entry, got %d", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() (int, error) {
		calls++
		return 100, nil
	}

	for range 3 {
		val, err := c.GetOrCreate("key1", create)
		if err != nil || val != 100 {
			t.Fatalf("expected 100, got %d, %v", val, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected create called once, got %d", calls)
	}
}

func TestCacheGetOrCreateErrorNotCached(t *testing.T) {
	c := New[string, int](10)
	boom := errors.New("boom")
	if _, err := c.GetOrCreate("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed creation was cached")
	}
	val, err := c.GetOrCreate("k", func() (int, error) { return 5, nil })
	if err != nil || val != 5 {
		t.Errorf("expected retry to succeed, got %d, %v", val, err)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("expected a to be deleted")
	}
	if c.Delete("a") {
		t.Error("second delete must report false")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	for i := range 3 {
		c.Set(strconv.Itoa(i), i)
	}
	c.Get("0") // 1 is now the oldest
	c.Set("new", 100)

	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
	if _, ok := c.Get("1"); ok {
		t.Error("expected 1 to be evicted")
	}
	for _, k := range []string{"0", "2", "new"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", s.Evictions)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](10)
	if c.Stats().HitRate() != 0 {
		t.Error("hit rate before lookups must be 0")
	}
	c.Set("key1", 1)
	c.Get("key1")
	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	s := c.Stats()
	if s.Len != 1 || s.Capacity != 10 || s.Hits != 3 || s.Misses != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.HitRate() != 0.75 {
		t.Errorf("expected hit rate 0.75, got %v", s.HitRate())
	}

	c.ResetStats()
	if s := c.Stats(); s.Hits != 0 || s.Misses != 0 || s.Len != 1 {
		t.Errorf("ResetStats must zero counters only, got %+v", s)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, int](1000)
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := n*100 + j
				c.Set(key, key)
				c.Get(key)
				_, _ = c.GetOrCreate(j, func() (int, error) { return j, nil })
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 1000 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}
