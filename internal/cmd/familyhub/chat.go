package familyhub

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	chatclient "github.com/louisbranch/familyhub/internal/services/chat/client"
)

const quitCommand = "/quit"

func (a *app) chat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("chat ROOM_ID")
	}
	if err := a.restore(ctx); err != nil {
		return err
	}
	identity := a.manager.Identity()
	view := newChatView(a.out, a.notifier, identity.ID, time.Local)
	defer view.flush()
	room, err := chatclient.New(chatclient.Config{
		RoomID:     args[0],
		Identity:   identity,
		BaseURL:    a.client.BaseURL(),
		History:    a.client,
		Authorizer: a.manager.Credential(),
		Observer:   view,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := room.Close(); err != nil {
			log.Printf("familyhub: close chat: %v", err)
		}
	}()

	// Start errors are already alerted; the room stays usable and the next
	// send reconnects.
	if err := room.Start(ctx); err != nil {
		log.Printf("familyhub: start chat room=%q err=%v", room.RoomID(), err)
	}
	fmt.Fprintf(a.out, "joined %s; type %s to leave\n", room.RoomID(), quitCommand)

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readLines(a.in, lines, done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == quitCommand {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			err := room.SendWithRetry(ctx, line)
			// SEND_FAILED is alerted by the room itself.
			if err != nil && !errors.Is(err, chatclient.ErrSendFailed) && !errors.Is(err, chatclient.ErrClosed) {
				a.notifier.Alert(err)
			}
		}
	}
}

func readLines(in io.Reader, lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
}

// chatView prints the room timeline as messages arrive. Rows already shown
// are not reprinted, so late history lands after newer lines. Timestamps go
// on their own line after a row. The newest row's timestamp waits until a
// later message or flush decides whether its group ends there.
type chatView struct {
	mu       sync.Mutex
	out      io.Writer
	notifier *notifier
	me       string
	loc      *time.Location
	printed  map[string]struct{}
	lastDay  time.Time
	state    chatclient.State
	// open is the last printed row while its timestamp is undecided.
	open *chatclient.Message
}

func newChatView(out io.Writer, n *notifier, me string, loc *time.Location) *chatView {
	return &chatView{
		out:      out,
		notifier: n,
		me:       me,
		loc:      loc,
		printed:  make(map[string]struct{}),
	}
}

func (v *chatView) MessagesChanged(messages []chatclient.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	rows := chatclient.BuildTimeline(messages, v.me, v.loc)
	if v.open != nil {
		for i, row := range rows {
			if row.Message.ID != v.open.ID {
				continue
			}
			if i == len(rows)-1 {
				return
			}
			if row.ShowTimestamp {
				v.printStamp(row.Message)
			}
			break
		}
		v.open = nil
	}
	for i, row := range rows {
		if _, done := v.printed[row.Message.ID]; done {
			continue
		}
		v.printed[row.Message.ID] = struct{}{}
		v.printRow(row)
		switch {
		case i == len(rows)-1:
			msg := row.Message
			v.open = &msg
		case row.ShowTimestamp:
			v.printStamp(row.Message)
		}
	}
}

// flush prints the timestamp still held for the newest row.
func (v *chatView) flush() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.open != nil {
		v.printStamp(*v.open)
		v.open = nil
	}
}

func (v *chatView) printRow(row chatclient.Row) {
	if row.DayDivider && !row.Day.Equal(v.lastDay) {
		fmt.Fprintf(v.out, "--- %s ---\n", row.Day.Format("Mon, Jan 2 2006"))
		v.lastDay = row.Day
	}
	if row.ShowSender {
		label := row.Message.Sender.Name
		if row.Message.Sender.IsAdmin {
			label += " (admin)"
		}
		fmt.Fprintf(v.out, "%s:\n", label)
	}
	prefix := "  "
	if row.Mine {
		prefix = "> "
	}
	fmt.Fprintln(v.out, prefix+row.Message.Text)
}

func (v *chatView) printStamp(msg chatclient.Message) {
	fmt.Fprintf(v.out, "  [%s]\n", msg.Timestamp.In(v.loc).Format("15:04"))
}

func (v *chatView) StateChanged(state chatclient.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if state == v.state {
		return
	}
	v.state = state
	log.Printf("familyhub: chat state=%s", state)
}

func (v *chatView) Alert(err error) {
	v.notifier.Alert(err)
}
