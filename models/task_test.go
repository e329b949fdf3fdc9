package models

import "testing"

func TestStatusDisplay(t *testing.T) {
	if got := StatusInProgress.Display(); got != "in progress" {
		t.Errorf("Display = %q, want %q", got, "in progress")
	}
	if got := StatusPending.Display(); got != "pending" {
		t.Errorf("Display = %q, want %q", got, "pending")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if TaskStatus("done").Valid() {
		t.Error("'done' should not be valid")
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if TaskPriority("urgent").Valid() {
		t.Error("'urgent' should not be valid")
	}
}
