// Package registry cung cấp registry generic thread-safe cho các singleton
// dùng chung của ứng dụng: database handle và các MongoDB collection được
// đăng ký lúc khởi động rồi tra cứu theo tên trong suốt vòng đời server.
package registry

import (
	"fmt"
	"sync"

	"shop_commerce/internal/common"
)

// Registry quản lý các item theo tên. Type parameter T là loại item được
// quản lý (ví dụ *mongo.Collection). Thread-safe qua sync.RWMutex.
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo một registry rỗng cho kiểu T.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký một item theo tên, ghi đè nếu tên đã tồn tại.
// Trả về true nếu là item mới, false nếu ghi đè; lỗi nếu name rỗng.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên. Trả về zero value của T và false nếu không tồn tại.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}
