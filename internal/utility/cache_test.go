// Package utility - Test cache in-memory có TTL.
package utility

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set("user:1", "alice")
	value, found := cache.Get("user:1")
	if !found {
		t.Fatal("entry vừa set phải tìm thấy được")
	}
	if value != "alice" {
		t.Errorf("value = %v, muốn alice", value)
	}

	if _, found := cache.Get("user:2"); found {
		t.Error("key chưa set không được tìm thấy")
	}
}

// Entry quá TTL phải bị Get bỏ qua kể cả khi goroutine dọn dẹp chưa chạy.
func TestCache_EntryHetHanBiBoQua(t *testing.T) {
	cache := NewCache(10*time.Millisecond, time.Hour)
	defer cache.Stop()

	cache.Set("user:1", "alice")
	time.Sleep(30 * time.Millisecond)

	if _, found := cache.Get("user:1"); found {
		t.Error("entry quá TTL phải được coi như không tồn tại")
	}
}

func TestCache_CleanupXoaEntryHetHan(t *testing.T) {
	cache := NewCache(10*time.Millisecond, 20*time.Millisecond)
	defer cache.Stop()

	cache.Set("user:1", "alice")
	time.Sleep(60 * time.Millisecond)

	cache.mu.RLock()
	_, exists := cache.items["user:1"]
	cache.mu.RUnlock()
	if exists {
		t.Error("entry hết hạn phải bị goroutine dọn dẹp xóa khỏi map")
	}
}
