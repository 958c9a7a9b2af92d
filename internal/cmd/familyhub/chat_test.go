package familyhub

import (
	"bytes"
	"testing"
	"time"

	chatclient "github.com/louisbranch/familyhub/internal/services/chat/client"
)

func TestChatViewHoldsNewestTimestampUntilGroupEnds(t *testing.T) {
	base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	bo := chatclient.Sender{ID: "bo@example.com", Name: "Bo"}
	ana := chatclient.Sender{ID: "ana@example.com", Name: "Ana"}
	m1 := chatclient.Message{ID: "m1", Text: "one", Sender: bo, Timestamp: base}
	m2 := chatclient.Message{ID: "m2", Text: "two", Sender: bo, Timestamp: base.Add(time.Minute)}
	m3 := chatclient.Message{ID: "m3", Text: "three", Sender: ana, Timestamp: base.Add(2 * time.Minute)}

	var out bytes.Buffer
	view := newChatView(&out, nil, ana.ID, time.UTC)

	view.MessagesChanged([]chatclient.Message{m1})
	if got, want := out.String(), "--- Fri, Apr 10 2026 ---\nBo:\n  one\n"; got != want {
		t.Fatalf("after first message:\n%q\nwant\n%q", got, want)
	}

	// m1 is grouped with m2, so its timestamp is never printed.
	view.MessagesChanged([]chatclient.Message{m1, m2})
	view.MessagesChanged([]chatclient.Message{m1, m2})
	if got, want := out.String(), "--- Fri, Apr 10 2026 ---\nBo:\n  one\n  two\n"; got != want {
		t.Fatalf("after grouped message:\n%q\nwant\n%q", got, want)
	}

	view.MessagesChanged([]chatclient.Message{m1, m2, m3})
	view.flush()
	view.flush()
	want := "--- Fri, Apr 10 2026 ---\nBo:\n  one\n  two\n  [09:01]\n> three\n  [09:02]\n"
	if got := out.String(); got != want {
		t.Fatalf("final output:\n%q\nwant\n%q", got, want)
	}
}

func TestChatViewPrintsSettledTimestampsInOneBatch(t *testing.T) {
	base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	bo := chatclient.Sender{ID: "bo@example.com", Name: "Bo", IsAdmin: true}
	messages := []chatclient.Message{
		{ID: "m1", Text: "early", Sender: bo, Timestamp: base},
		{ID: "m2", Text: "late", Sender: bo, Timestamp: base.Add(10 * time.Minute)},
	}

	var out bytes.Buffer
	view := newChatView(&out, nil, "ana@example.com", time.UTC)
	view.MessagesChanged(messages)
	want := "--- Fri, Apr 10 2026 ---\nBo (admin):\n  early\n  [09:00]\n  late\n"
	if got := out.String(); got != want {
		t.Fatalf("output:\n%q\nwant\n%q", got, want)
	}
}
