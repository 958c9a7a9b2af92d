package client

import "time"

// TimestampWindow is the gap after which consecutive messages from the same
// sender each show their timestamp.
const TimestampWindow = 5 * time.Minute

// ShowSender reports whether message i shows its sender label: it is not
// from me and the previous message has a different sender.
func ShowSender(messages []Message, i int, me string) bool {
	if i < 0 || i >= len(messages) {
		return false
	}
	if messages[i].Sender.ID == me {
		return false
	}
	return i == 0 || messages[i-1].Sender.ID != messages[i].Sender.ID
}

// ShowTimestamp reports whether message i shows its timestamp: it is the
// last message, the next message has a different sender, or the next
// message is more than TimestampWindow later.
func ShowTimestamp(messages []Message, i int) bool {
	if i < 0 || i >= len(messages) {
		return false
	}
	if i == len(messages)-1 {
		return true
	}
	cur, next := messages[i], messages[i+1]
	if next.Sender.ID != cur.Sender.ID {
		return true
	}
	return next.Timestamp.Sub(cur.Timestamp) > TimestampWindow
}

// ShowDayDivider reports whether a day divider precedes message i: it is
// the first message, or its calendar date in loc differs from the previous
// message's.
func ShowDayDivider(messages []Message, i int, loc *time.Location) bool {
	if i < 0 || i >= len(messages) {
		return false
	}
	if i == 0 {
		return true
	}
	return !sameDay(messages[i-1].Timestamp, messages[i].Timestamp, loc)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Row is one rendered timeline entry.
type Row struct {
	Message       Message
	Mine          bool
	ShowSender    bool
	ShowTimestamp bool
	// DayDivider is set when a date header precedes the message; Day holds
	// midnight of that date in the timeline location.
	DayDivider bool
	Day        time.Time
}

// BuildTimeline applies the grouping rules to messages for the viewer me.
func BuildTimeline(messages []Message, me string, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, len(messages))
	for i, msg := range messages {
		row := Row{
			Message:       msg,
			Mine:          msg.Sender.ID == me,
			ShowSender:    ShowSender(messages, i, me),
			ShowTimestamp: ShowTimestamp(messages, i),
			DayDivider:    ShowDayDivider(messages, i, loc),
		}
		if row.DayDivider {
			y, m, d := msg.Timestamp.In(loc).Date()
			row.Day = time.Date(y, m, d, 0, 0, 0, 0, loc)
		}
		rows[i] = row
	}
	return rows
}
