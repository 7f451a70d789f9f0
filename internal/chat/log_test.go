package chat

import "testing"

func TestLogStaleEpochMutationsDrop(t *testing.T) {
	log := NewLog(nil)
	epoch := log.Epoch()

	m := NewPlaceholder()
	if !log.Append(epoch, m) {
		t.Fatal("fresh Append returned false")
	}

	log.Advance()

	if log.Append(epoch, NewPlaceholder()) {
		t.Fatal("stale Append returned true")
	}
	if log.Replace(epoch, m.ID, NewPlaceholder()) {
		t.Fatal("stale Replace returned true")
	}
	if log.Remove(epoch, m.ID) {
		t.Fatal("stale Remove returned true")
	}
	if log.Len() != 1 {
		t.Fatalf("log length = %d, want 1", log.Len())
	}
}

func TestLogReplaceUnknownID(t *testing.T) {
	log := NewLog(nil)
	if log.Replace(log.Epoch(), "missing", NewPlaceholder()) {
		t.Fatal("Replace of unknown id returned true")
	}
}

func TestLogResetClearsAndInvalidates(t *testing.T) {
	log := NewLog(nil)
	epoch := log.Epoch()
	log.Append(epoch, NewPlaceholder())
	log.Append(epoch, NewPlaceholder())

	log.Reset()

	if log.Len() != 0 {
		t.Fatalf("log length after Reset = %d, want 0", log.Len())
	}
	if log.Append(epoch, NewPlaceholder()) {
		t.Fatal("Append with pre-Reset epoch returned true")
	}
}

func TestLogEventsMirrorMutations(t *testing.T) {
	var events []LogEvent
	log := NewLog(func(ev LogEvent) { events = append(events, ev) })
	epoch := log.Epoch()

	first := NewPlaceholder()
	log.Append(epoch, first)
	replacement := NewPlaceholder()
	replacement.Text = "你好"
	replacement.Streaming = false
	log.Replace(epoch, first.ID, replacement)
	log.Remove(epoch, replacement.ID)

	want := []LogEventType{LogAppend, LogReplace, LogRemove}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Fatalf("event %d = %s, want %s", i, ev.Type, want[i])
		}
	}
	if events[1].TargetID != first.ID {
		t.Fatalf("replace target = %q, want %q", events[1].TargetID, first.ID)
	}
	if events[2].TargetID != replacement.ID {
		t.Fatalf("remove target = %q, want %q", events[2].TargetID, replacement.ID)
	}
}
