package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range []string{OrderStatusProcessing, OrderStatusCompleted, OrderStatusShipped, OrderStatusCancelled} {
		if !IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be a valid status", status)
		}
	}
	for _, status := range []string{"", "pending", "COMPLETED", "refunded"} {
		if IsValidOrderStatus(status) {
			t.Fatalf("expected %q to be rejected", status)
		}
	}
}
