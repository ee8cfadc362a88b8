package entity

import "testing"

func TestPasscodeIsExpired(t *testing.T) {
	pc := Passcode{CreateTime: 1000, ExpireDuration: 60}

	t.Run("InsideWindow", func(t *testing.T) {
		if pc.IsExpired(1030) {
			t.Fatalf("expected passcode to be valid inside the window")
		}
	})

	t.Run("AtWindowBoundary", func(t *testing.T) {
		if pc.IsExpired(1060) {
			t.Fatalf("expected passcode to be valid at exactly create_time+expire_duration")
		}
	})

	t.Run("PastWindow", func(t *testing.T) {
		if !pc.IsExpired(1061) {
			t.Fatalf("expected passcode to be expired one second past the window")
		}
	})

	t.Run("ZeroDuration", func(t *testing.T) {
		zero := Passcode{CreateTime: 1000, ExpireDuration: 0}
		if zero.IsExpired(1000) {
			t.Fatalf("expected zero-duration passcode to be valid at creation second")
		}
		if !zero.IsExpired(1001) {
			t.Fatalf("expected zero-duration passcode to be expired after creation second")
		}
	})
}

func TestPasscodeIsConsumed(t *testing.T) {
	if (Passcode{}).IsConsumed() {
		t.Fatalf("expected zero verified_time to mean not consumed")
	}
	if !(Passcode{VerifiedTime: 1700000000}).IsConsumed() {
		t.Fatalf("expected non-zero verified_time to mean consumed")
	}
}
