package models

import (
	"testing"
	"time"
)

func TestIsLocked(t *testing.T) {
	now := time.Now().UnixMilli()

	u := &User{}
	if u.IsLocked(now) {
		t.Error("user chưa từng bị khóa không được tính là đang khóa")
	}

	u.LockUntil = now + int64(time.Hour/time.Millisecond)
	if !u.IsLocked(now) {
		t.Error("lockUntil ở tương lai phải tính là đang khóa")
	}

	u.LockUntil = now - 1000
	if u.IsLocked(now) {
		t.Error("lockUntil đã qua không được tính là đang khóa")
	}
}
