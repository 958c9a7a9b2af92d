package client

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// UnknownSender names senders that carry no usable name or email.
const UnknownSender = "Unknown"

const newMessageTag = "newmessage"

// Sender is the author of a message as known when it was sent.
type Sender struct {
	ID      string
	Name    string
	IsAdmin bool
}

// Message is one chat message. Messages are immutable once appended.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// outboundFrame is the JSON frame sent to the room.
type outboundFrame struct {
	Content    string `json:"content"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	RoomID     string `json:"roomId"`
}

// inboundFrame is the loose JSON shape of live frames and history entries.
type inboundFrame struct {
	Type       string          `json:"type"`
	ID         flexString      `json:"id"`
	MessageID  flexString      `json:"messageId"`
	Content    string          `json:"content"`
	Sender     *inboundSender  `json:"sender"`
	SenderID   flexString      `json:"senderId"`
	SenderName string          `json:"senderName"`
	CreatedAt  json.RawMessage `json:"createdAt"`
	Payload    json.RawMessage `json:"payload"`
}

type inboundSender struct {
	ID    flexString `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  string     `json:"role"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// decoder turns inbound JSON into Messages.
type decoder struct {
	now   func() time.Time
	newID func() string
}

// frame decodes one live frame. It reports false for frames that are not
// new messages or cannot be parsed.
func (d decoder) frame(data []byte) (Message, bool) {
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return Message{}, false
	}
	f = f.flatten()
	if f.Type != "" && normalizeTag(f.Type) != newMessageTag {
		return Message{}, false
	}
	return d.message(f), true
}

// history decodes a history response, either a bare array or an object with
// a messages array, sorted by timestamp with ties in response order.
func (d decoder) history(data []byte) ([]Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var entries []json.RawMessage
	if data[0] == '{' {
		var wrapped struct {
			Messages []json.RawMessage `json:"messages"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		entries = wrapped.Messages
	} else if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(entries))
	for _, entry := range entries {
		var f inboundFrame
		if err := json.Unmarshal(entry, &f); err != nil {
			continue
		}
		out = append(out, d.message(f.flatten()))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// flatten lifts a nested payload object into the frame, keeping the outer
// type when the payload has none.
func (f inboundFrame) flatten() inboundFrame {
	payload := bytes.TrimSpace(f.Payload)
	if len(payload) == 0 || payload[0] != '{' {
		return f
	}
	var inner inboundFrame
	if err := json.Unmarshal(payload, &inner); err != nil {
		return f
	}
	if inner.Type == "" {
		inner.Type = f.Type
	}
	return inner
}

func (d decoder) message(f inboundFrame) Message {
	id := string(f.ID)
	if id == "" {
		id = string(f.MessageID)
	}
	if id == "" {
		id = d.newID()
	}
	return Message{
		ID:        id,
		Text:      f.Content,
		Sender:    resolveSender(f),
		Timestamp: parseCreatedAt(f.CreatedAt, d.now),
	}
}

func resolveSender(f inboundFrame) Sender {
	var s Sender
	if f.Sender != nil {
		s.ID = strings.TrimSpace(f.Sender.Email)
		if s.ID == "" {
			s.ID = string(f.Sender.ID)
		}
		s.Name = strings.TrimSpace(f.Sender.Name)
		s.IsAdmin = strings.EqualFold(strings.TrimSpace(f.Sender.Role), "ADMIN")
	}
	if s.ID == "" {
		s.ID = string(f.SenderID)
	}
	if s.Name == "" {
		s.Name = strings.TrimSpace(f.SenderName)
	}
	if s.Name == "" {
		s.Name = emailLocalPart(s.ID)
	}
	if s.Name == "" {
		s.Name = UnknownSender
	}
	return s
}

func emailLocalPart(id string) string {
	at := strings.Index(id, "@")
	if at <= 0 {
		return ""
	}
	return id[:at]
}

// localLayouts are zone-less server timestamps, read in the local zone.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseCreatedAt accepts an RFC 3339 string, a zone-less date-time, or epoch
// milliseconds as a number or numeric string. Anything else resolves to now.
func parseCreatedAt(raw json.RawMessage, now func() time.Time) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return now()
	}
	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return now()
		}
		text = strings.TrimSpace(text)
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return t
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
				return t
			}
		}
	} else {
		text = string(raw)
	}
	if ms, err := strconv.ParseInt(text, 10, 64); err == nil {
		if ms > 0 {
			return time.UnixMilli(ms)
		}
		return now()
	}
	if ms, err := strconv.ParseFloat(text, 64); err == nil && ms > 0 && ms < math.MaxInt64 {
		return time.UnixMilli(int64(ms))
	}
	return now()
}

func normalizeTag(tag string) string {
	var b strings.Builder
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// insertOrdered places msg after every message with an equal or earlier
// timestamp.
func insertOrdered(list []Message, msg Message) []Message {
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Timestamp.After(msg.Timestamp)
	})
	list = append(list, Message{})
	copy(list[i+1:], list[i:])
	list[i] = msg
	return list
}
