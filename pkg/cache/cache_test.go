package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetOrCompute_CachesValue(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("key", compute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "result" {
			t.Errorf("expected result, got %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 compute call, got %d", calls)
	}
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return 42, nil
	}

	if _, err := c.GetOrCompute("key", compute); err == nil {
		t.Error("expected error from first compute")
	}
	v, err := c.GetOrCompute("key", compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42 after retry, got %v", v)
	}
	if calls != 2 {
		t.Errorf("expected failed result not to be cached, calls=%d", calls)
	}
}

func TestGetOrCompute_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	c.GetOrCompute("key", compute)
	time.Sleep(20 * time.Millisecond)
	v, _ := c.GetOrCompute("key", compute)
	if v != 2 {
		t.Errorf("expected recompute after expiry, got %v", v)
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	c.GetOrCompute("a", compute)
	c.GetOrCompute("b", compute)

	c.Invalidate("a")
	c.GetOrCompute("a", compute)
	c.GetOrCompute("b", compute)
	if calls != 3 {
		t.Errorf("expected only invalidated key to recompute, calls=%d", calls)
	}

	c.InvalidateAll()
	c.GetOrCompute("a", compute)
	c.GetOrCompute("b", compute)
	if calls != 5 {
		t.Errorf("expected all keys to recompute after InvalidateAll, calls=%d", calls)
	}
}
