package ingest

import (
	"testing"
	"time"
)

func TestPageTimeout_FloorsNonPositive(t *testing.T) {
	if got := pageTimeout(0); got != defaultPageTimeout {
		t.Errorf("pageTimeout(0) = %v, want %v", got, defaultPageTimeout)
	}
	if got := pageTimeout(-time.Second); got != defaultPageTimeout {
		t.Errorf("pageTimeout(-1s) = %v, want %v", got, defaultPageTimeout)
	}
	if got := pageTimeout(45 * time.Second); got != 45*time.Second {
		t.Errorf("pageTimeout(45s) = %v, want it kept", got)
	}
}
