package cache_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kirychukyurii/dr-dashboard/internal/cache"
)

func TestTTLCache_SetGetDelete(t *testing.T) {
	c := cache.New(time.Minute)

	c.Set("region", "us-east-1", time.Minute)

	value, ok := c.Get("region")
	assert.True(t, ok)
	assert.Equal(t, "us-east-1", value)

	c.Delete("region")
	_, ok = c.Get("region")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := cache.New(time.Minute)

	c.Set("notice", "Failover initiated", 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("notice")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestTTLCache_PopReturnsValueOnce(t *testing.T) {
	c := cache.New(time.Minute)
	c.Set("notice", "Failover initiated", time.Minute)

	var (
		wg   sync.WaitGroup
		hits atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Pop("notice"); ok {
				hits.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	_, ok := c.Get("notice")
	assert.False(t, ok)
}

func TestTTLCache_Clear(t *testing.T) {
	c := cache.New(time.Minute)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}
