package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// FilterHook lọc log entries theo các tiêu chí mà log của hệ thống thực sự mang:
// - Level (trace, debug, info, warn, error, fatal)
// - Path (field "path" do middleware và handler set, so khớp theo prefix)
// - Method (field "method": GET, POST, PATCH, DELETE)
//
// Entry bị lọc được đánh dấu field "_filtered" = true; AsyncHook kiểm tra
// field này và bỏ qua entry khi ghi.
type FilterHook struct {
	// Các filter sets (map[string]bool để lookup nhanh).
	// Map chứa "*" hoặc rỗng nghĩa là cho phép tất cả.
	allowedLevels  map[string]bool
	allowedPaths   map[string]bool
	allowedMethods map[string]bool

	hasLevelFilter  bool
	hasPathFilter   bool
	hasMethodFilter bool

	mu sync.RWMutex
}

// NewFilterHook tạo một filter hook mới từ cấu hình
func NewFilterHook(cfg *LogConfig) *FilterHook {
	hook := &FilterHook{}
	hook.updateFilters(cfg)
	return hook
}

// updateFilters cập nhật filters từ config
func (h *FilterHook) updateFilters(cfg *LogConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.allowedLevels = parseFilter(cfg.FilterLevels)
	h.hasLevelFilter = !h.allowedLevels["*"]

	h.allowedPaths = parseFilter(cfg.FilterPaths)
	h.hasPathFilter = !h.allowedPaths["*"]

	h.allowedMethods = parseFilter(cfg.FilterMethods)
	h.hasMethodFilter = !h.allowedMethods["*"]
}

// parseFilter parse filter string "value1,value2" thành map.
// Chuỗi rỗng hoặc "*" cho phép tất cả.
func parseFilter(filterStr string) map[string]bool {
	result := make(map[string]bool)

	if filterStr == "" || filterStr == "*" {
		result["*"] = true
		return result
	}

	for _, v := range strings.Split(filterStr, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			result[strings.ToLower(v)] = true
		}
	}
	return result
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire được gọi mỗi khi có log entry mới.
// Entry không qua được filter bị đánh dấu "_filtered", không bị chặn ở đây
// để các hook khác vẫn chạy.
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.hasLevelFilter {
		if !h.allowedLevels[strings.ToLower(entry.Level.String())] {
			entry.Data["_filtered"] = true
			return nil
		}
	}

	if h.hasPathFilter {
		// Entry không có field path (log nghiệp vụ, worker) không bị lọc theo path
		if path, ok := entry.Data["path"].(string); ok && path != "" {
			if !h.matchPath(strings.ToLower(path)) {
				entry.Data["_filtered"] = true
				return nil
			}
		}
	}

	if h.hasMethodFilter {
		if method, ok := entry.Data["method"].(string); ok && method != "" {
			if !h.allowedMethods[strings.ToLower(method)] {
				entry.Data["_filtered"] = true
				return nil
			}
		}
	}

	return nil
}

// matchPath kiểm tra path có khớp (exact hoặc prefix) với một path được phép không.
// Caller phải giữ h.mu.
func (h *FilterHook) matchPath(path string) bool {
	for allowed := range h.allowedPaths {
		if allowed == "*" || path == allowed || strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

// UpdateFilters cập nhật filters từ config mới (có thể gọi runtime)
func (h *FilterHook) UpdateFilters(cfg *LogConfig) {
	h.updateFilters(cfg)
}
