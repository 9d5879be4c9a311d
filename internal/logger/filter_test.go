package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

// newEntry tạo một log entry tối thiểu cho test filter.
func newEntry(level logrus.Level, fields logrus.Fields) *logrus.Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = level
	if fields != nil {
		entry.Data = fields
	}
	return entry
}

func isFiltered(entry *logrus.Entry) bool {
	filtered, ok := entry.Data["_filtered"].(bool)
	return ok && filtered
}

func TestFilterHook_EmptyConfigChoPhepTatCa(t *testing.T) {
	hook := NewFilterHook(&LogConfig{})

	entry := newEntry(logrus.DebugLevel, logrus.Fields{"path": "/api/v1/orders", "method": "POST"})
	if err := hook.Fire(entry); err != nil {
		t.Fatalf("Fire trả về lỗi: %v", err)
	}
	if isFiltered(entry) {
		t.Error("Config rỗng phải cho phép tất cả entries")
	}
}

func TestFilterHook_LocTheoLevel(t *testing.T) {
	hook := NewFilterHook(&LogConfig{FilterLevels: "warn,error"})

	infoEntry := newEntry(logrus.InfoLevel, logrus.Fields{})
	hook.Fire(infoEntry)
	if !isFiltered(infoEntry) {
		t.Error("Entry level info phải bị lọc khi chỉ cho phép warn,error")
	}

	warnEntry := newEntry(logrus.WarnLevel, logrus.Fields{})
	hook.Fire(warnEntry)
	if isFiltered(warnEntry) {
		t.Error("Entry level warn không được bị lọc")
	}
}

func TestFilterHook_LocTheoPathPrefix(t *testing.T) {
	hook := NewFilterHook(&LogConfig{FilterPaths: "/api/v1/orders"})

	matched := newEntry(logrus.InfoLevel, logrus.Fields{"path": "/api/v1/orders/abc123"})
	hook.Fire(matched)
	if isFiltered(matched) {
		t.Error("Path khớp prefix không được bị lọc")
	}

	other := newEntry(logrus.InfoLevel, logrus.Fields{"path": "/api/v1/products"})
	hook.Fire(other)
	if !isFiltered(other) {
		t.Error("Path không khớp phải bị lọc")
	}

	// Log nghiệp vụ không có field path không bị lọc theo path
	noPath := newEntry(logrus.InfoLevel, logrus.Fields{"orderId": "abc"})
	hook.Fire(noPath)
	if isFiltered(noPath) {
		t.Error("Entry không có field path không được bị lọc theo path")
	}
}

func TestFilterHook_LocTheoMethod(t *testing.T) {
	hook := NewFilterHook(&LogConfig{FilterMethods: "POST"})

	getEntry := newEntry(logrus.InfoLevel, logrus.Fields{"method": "GET"})
	hook.Fire(getEntry)
	if !isFiltered(getEntry) {
		t.Error("Method GET phải bị lọc khi chỉ cho phép POST")
	}

	postEntry := newEntry(logrus.InfoLevel, logrus.Fields{"method": "POST"})
	hook.Fire(postEntry)
	if isFiltered(postEntry) {
		t.Error("Method POST không được bị lọc")
	}
}

func TestFilterHook_UpdateFiltersRuntime(t *testing.T) {
	hook := NewFilterHook(&LogConfig{FilterLevels: "error"})

	infoEntry := newEntry(logrus.InfoLevel, logrus.Fields{})
	hook.Fire(infoEntry)
	if !isFiltered(infoEntry) {
		t.Fatal("Entry level info phải bị lọc trước khi update")
	}

	hook.UpdateFilters(&LogConfig{})
	after := newEntry(logrus.InfoLevel, logrus.Fields{})
	hook.Fire(after)
	if isFiltered(after) {
		t.Error("Sau khi update với config rỗng, entry không được bị lọc")
	}
}
