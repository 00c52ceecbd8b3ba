package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"orderease/logger"
)

func TestEvent_Message(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventNewOrder, "Server Alice notified of new order for Table 3"},
		{EventCall, "Server Alice notified of call from Table 3"},
		{EventCheckRequest, "Server Alice notified of check request from Table 3"},
	}
	for _, tt := range tests {
		ev := Event{Kind: tt.kind, TableNumber: 3, ServerName: "Alice"}
		if got := ev.Message(); got != tt.want {
			t.Errorf("%s: Message() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &LogSink{Log: logger.NewWithWriter(&buf, "orderease", "info")}
	if err := sink.Notify(context.Background(), Event{Kind: EventCall, TableNumber: 2, ServerName: "Bob"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "notify_call") || !strings.Contains(out, "Server Bob notified of call from Table 2") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Notify(context.Background(), Event{Kind: EventNewOrder, TableNumber: 1})
	_ = r.Notify(context.Background(), Event{Kind: EventCheckRequest, TableNumber: 1})
	got := r.Events()
	if len(got) != 2 || got[0].Kind != EventNewOrder || got[1].Kind != EventCheckRequest {
		t.Fatalf("Events() = %+v", got)
	}
}

func TestPublishing(t *testing.T) {
	at := time.Date(2024, 10, 9, 19, 0, 0, 0, time.UTC)
	pub, err := publishing(Event{Kind: EventNewOrder, TableNumber: 4, ServerName: "Alice", At: at})
	if err != nil {
		t.Fatal(err)
	}
	if pub.ContentType != "application/json" || pub.Type != "new_order" || !pub.Timestamp.Equal(at) {
		t.Fatalf("unexpected publishing %+v", pub)
	}
	var ev Event
	if err := json.Unmarshal(pub.Body, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.TableNumber != 4 || ev.ServerName != "Alice" {
		t.Fatalf("body decoded to %+v", ev)
	}
}
