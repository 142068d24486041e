package progress

import (
	"bufio"
	"bytes"
	"testing"
)

func TestStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)

	if err := s.Started("single"); err != nil {
		t.Fatalf("Started: %v", err)
	}
	if err := s.Progress("single", 2, 10, 0.2); err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if err := s.Complete("single", []string{"out_vocals.wav", "out_instrumental.wav"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var events []*Event
	for scanner.Scan() {
		ev, err := DecodeEvent(scanner.Bytes())
		if err != nil {
			t.Fatalf("DecodeEvent: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	wantTypes := []EventType{EventStarted, EventProgress, EventComplete}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Fatalf("event %d: type = %v, want %v", i, ev.Type, wantTypes[i])
		}
	}
}

func TestStreamErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)
	if err := s.Error("hybrid", "configuration error", "margin must be nonzero"); err != nil {
		t.Fatalf("Error: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	if !scanner.Scan() {
		t.Fatal("expected one line of output")
	}
	ev, err := DecodeEvent(scanner.Bytes())
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Type != EventError {
		t.Fatalf("type = %v, want %v", ev.Type, EventError)
	}
}

func TestMetricsNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordChunk("single", 10, 0.5)
	m.RecordStart()
	m.RecordComplete("single")
	m.RecordError("single", "runtime error")
}
