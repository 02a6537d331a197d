// Package cache 提供带TTL的结果缓存，替代按调用参数做全局记忆化的隐式缓存：
// 缓存实例显式注入，失效接口显式暴露。
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLCache 按键缓存计算结果，过期后重新计算
type TTLCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry
}

// New 创建缓存，ttl 为每个键的存活时长
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// GetOrCompute 返回键下未过期的缓存值，否则执行 compute 并缓存结果。
// compute 返回错误时不缓存，错误原样返回。
func (c *TTLCache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

// Invalidate 使单个键失效
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll 清空全部缓存
func (c *TTLCache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}
