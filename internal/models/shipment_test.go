package models

import "testing"

func TestShipmentStatusLinearAdvance(t *testing.T) {
	steps := []ShipmentStatus{ShipmentStatusCreated, ShipmentStatusShipped, ShipmentStatusInTransit, ShipmentStatusDelivered}
	for i := 0; i < len(steps)-1; i++ {
		if !steps[i].CanAdvanceTo(steps[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", steps[i], steps[i+1])
		}
	}
}

func TestShipmentStatusRejectsIllegalTransitions(t *testing.T) {
	all := []ShipmentStatus{ShipmentStatusCreated, ShipmentStatusShipped, ShipmentStatusInTransit, ShipmentStatusDelivered}
	allowed := map[ShipmentStatus]ShipmentStatus{
		ShipmentStatusCreated:   ShipmentStatusShipped,
		ShipmentStatusShipped:   ShipmentStatusInTransit,
		ShipmentStatusInTransit: ShipmentStatusDelivered,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			if got := from.CanAdvanceTo(to); got != want {
				t.Fatalf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestShipmentStatusNoSelfLoop(t *testing.T) {
	if ShipmentStatusShipped.CanAdvanceTo(ShipmentStatusShipped) {
		t.Fatal("expected Shipped -> Shipped to be rejected")
	}
}

func TestParseShipmentStatus(t *testing.T) {
	if _, err := ParseShipmentStatus("InTransit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseShipmentStatus("lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
