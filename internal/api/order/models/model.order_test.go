// Package models - Test máy trạng thái đơn hàng.
package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusCompleted, false},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{"unknown", OrderStatusPaid, false},
	}

	for _, c := range cases {
		got := CanTransition(c.from, c.to)
		if got != c.allowed {
			t.Errorf("CanTransition(%q, %q) = %v, muốn %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestCompletedAndCancelledAreTerminal(t *testing.T) {
	all := []string{OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled}
	for _, to := range all {
		if CanTransition(OrderStatusCompleted, to) {
			t.Errorf("completed là trạng thái kết thúc, không được chuyển sang %q", to)
		}
		if CanTransition(OrderStatusCancelled, to) {
			t.Errorf("cancelled là trạng thái kết thúc, không được chuyển sang %q", to)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	valid := []string{OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled}
	for _, s := range valid {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, muốn true", s)
		}
	}
	invalid := []string{"", "PENDING", "done", "refunded"}
	for _, s := range invalid {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, muốn false", s)
		}
	}
}
