// Package registry - Test đăng ký và tra cứu item theo tên.
package registry

import "testing"

func TestRegistry_RegisterVaGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("orders", "collection-orders")
	if err != nil {
		t.Fatalf("Register trả lỗi: %v", err)
	}
	if !isNew {
		t.Error("đăng ký lần đầu phải là item mới")
	}

	item, exists := r.Get("orders")
	if !exists || item != "collection-orders" {
		t.Errorf("Get = %q/%v, muốn collection-orders/true", item, exists)
	}

	if _, exists := r.Get("carts"); exists {
		t.Error("tên chưa đăng ký không được tồn tại")
	}
}

func TestRegistry_RegisterGhiDe(t *testing.T) {
	r := NewRegistry[int]()

	r.Register("counter", 1)
	isNew, err := r.Register("counter", 2)
	if err != nil {
		t.Fatalf("Register trả lỗi: %v", err)
	}
	if isNew {
		t.Error("đăng ký trùng tên phải báo ghi đè")
	}

	item, _ := r.Get("counter")
	if item != 2 {
		t.Errorf("item = %d, muốn 2 sau khi ghi đè", item)
	}
}

func TestRegistry_TenRongBiTuChoi(t *testing.T) {
	r := NewRegistry[string]()
	if _, err := r.Register("", "x"); err == nil {
		t.Fatal("name rỗng phải trả lỗi")
	}
}
