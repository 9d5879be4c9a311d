package utility

import (
	"sync"
	"time"
)

// cacheItem một entry trong cache kèm thời điểm hết hạn.
type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// Cache là cache in-memory có TTL, dùng để giảm truy vấn user trong middleware xác thực.
// Entry hết hạn bị Get bỏ qua ngay; goroutine dọn dẹp định kỳ giải phóng bộ nhớ.
type Cache struct {
	items    map[string]cacheItem
	mu       sync.RWMutex
	ttl      time.Duration
	cleanup  time.Duration
	stopChan chan struct{}
}

// NewCache tạo một instance mới của Cache với thời gian sống ttl cho mỗi entry
// và chu kỳ dọn dẹp cleanup.
func NewCache(ttl, cleanup time.Duration) *Cache {
	cache := &Cache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
	}
	go cache.cleanupLoop()
	return cache
}

// Set lưu giá trị vào cache với TTL của cache.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Get lấy giá trị từ cache. Entry đã hết hạn được coi như không tồn tại.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// Stop dừng goroutine dọn dẹp.
func (c *Cache) Stop() {
	close(c.stopChan)
}

// cleanupLoop xóa các entry đã hết hạn theo chu kỳ cleanup.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
