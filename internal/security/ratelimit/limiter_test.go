package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 2)
	defer l.Stop()

	if !l.Allow("a@example.com") {
		t.Error("first request should pass")
	}
	if !l.Allow("a@example.com") {
		t.Error("second request should pass within burst")
	}
	if l.Allow("a@example.com") {
		t.Error("third immediate request should be limited")
	}
}

func TestPrincipalsAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)
	defer l.Stop()

	if !l.Allow("a@example.com") {
		t.Error("first principal should pass")
	}
	if l.Allow("a@example.com") {
		t.Error("first principal should be limited")
	}
	if !l.Allow("b@example.com") {
		t.Error("second principal has its own bucket")
	}
}
