package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/familyhub/internal/platform/errors"
	"github.com/louisbranch/familyhub/internal/platform/timeouts"
	"github.com/louisbranch/familyhub/internal/services/session"
	"golang.org/x/sync/errgroup"
)

// MaxMessageRunes bounds outgoing message text.
const MaxMessageRunes = 2000

var (
	// ErrIdentityRequired is returned when a session is opened signed out.
	ErrIdentityRequired = apperrors.New(apperrors.CodeNotAuthenticated, "chat requires a signed-in identity")
	// ErrSendFailed is returned when a message could not be sent after retry.
	ErrSendFailed = apperrors.New(apperrors.CodeSendFailed, "message could not be sent")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("chat session is closed")
)

// HistoryFetcher loads the stored messages of a room.
type HistoryFetcher interface {
	ChatHistory(ctx context.Context, roomID string) (json.RawMessage, error)
}

// Authorizer supplies the Authorization header for the socket handshake.
type Authorizer interface {
	Authorization() string
}

// Config configures a Session.
type Config struct {
	RoomID   string
	Identity session.Identity
	// BaseURL is the REST base URL the socket endpoint is derived from.
	BaseURL    string
	Dialer     Dialer
	History    HistoryFetcher
	Authorizer Authorizer
	Observer   Observer
	// RetryDelay is the pause before the single send retry. Defaults to
	// timeouts.SendRetry.
	RetryDelay time.Duration
	Now        func() time.Time
	NewID      func() string
}

// Session is one room connection and its ordered message list.
type Session struct {
	roomID     string
	identity   session.Identity
	endpoint   string
	dialer     Dialer
	history    HistoryFetcher
	authorizer Authorizer
	observer   Observer
	retryDelay time.Duration
	decode     decoder

	// ctx bounds background dials and is canceled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	disposed atomic.Bool

	mu       sync.Mutex
	state    State
	conn     Conn
	messages []Message
	seen     map[string]struct{}
	loading  bool
}

// New builds an idle session for cfg.RoomID.
func New(cfg Config) (*Session, error) {
	roomID := strings.TrimSpace(cfg.RoomID)
	if roomID == "" {
		return nil, apperrors.New(apperrors.CodeRoomRequired, "room id is required")
	}
	if strings.TrimSpace(cfg.Identity.ID) == "" {
		return nil, ErrIdentityRequired
	}
	endpoint, err := SocketURL(cfg.BaseURL, cfg.Identity.ID, roomID)
	if err != nil {
		return nil, err
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = WebSocketDialer{}
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = timeouts.SendRetry
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		roomID:     roomID,
		identity:   cfg.Identity,
		endpoint:   endpoint,
		dialer:     dialer,
		history:    cfg.History,
		authorizer: cfg.Authorizer,
		observer:   observer,
		retryDelay: retryDelay,
		decode:     decoder{now: now, newID: newID},
		ctx:        ctx,
		cancel:     cancel,
		state:      StateIdle,
		seen:       make(map[string]struct{}),
		loading:    true,
	}, nil
}

// RoomID returns the room this session is bound to.
func (s *Session) RoomID() string { return s.roomID }

// Endpoint returns the socket URL the session dials.
func (s *Session) Endpoint() string { return s.endpoint }

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether the room is still waiting for its first open or
// history load.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Messages returns a copy of the ordered message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Start connects and fetches history concurrently. Either may finish first.
func (s *Session) Start(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.Connect(ctx) })
	g.Go(func() error { return s.FetchHistory(ctx) })
	return g.Wait()
}

// Connect opens the room socket. It is a no-op while the session is OPEN or
// already CONNECTING.
func (s *Session) Connect(ctx context.Context) error {
	if !s.beginDial() {
		if s.disposed.Load() {
			return ErrClosed
		}
		return nil
	}
	return s.dial(ctx)
}

// beginDial moves the session to CONNECTING and reports whether the caller
// should dial.
func (s *Session) beginDial() bool {
	s.mu.Lock()
	if s.disposed.Load() {
		s.mu.Unlock()
		return false
	}
	next, ok := transition(s.state, eventDial)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = next
	s.mu.Unlock()
	s.emitState(next)
	return true
}

func (s *Session) dial(ctx context.Context) error {
	if ctx == nil {
		ctx = s.ctx
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeouts.SocketDial)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	header := http.Header{}
	if s.authorizer != nil {
		if value := s.authorizer.Authorization(); value != "" {
			header.Set("Authorization", value)
		}
	}
	conn, err := s.dialer.Dial(dialCtx, s.endpoint, header)

	s.mu.Lock()
	if s.disposed.Load() {
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return ErrClosed
	}
	if err != nil {
		next, _ := transition(s.state, eventFailed)
		s.state = next
		s.mu.Unlock()
		log.Printf("chat: dial failed room=%q err=%v", s.roomID, err)
		wrapped := apperrors.Wrap(apperrors.CodeSocketError, "connect to chat", err)
		s.emitState(next)
		s.emitAlert(wrapped)
		return wrapped
	}
	next, _ := transition(s.state, eventOpened)
	s.state = next
	s.conn = conn
	s.loading = false
	s.mu.Unlock()

	log.Printf("chat: connected room=%q", s.roomID)
	s.emitState(next)
	go s.readLoop(conn)
	return nil
}

func (s *Session) readLoop(conn Conn) {
	for {
		data, err := conn.ReadFrame()
		if err != nil {
			s.connectionLost(conn, err)
			return
		}
		msg, ok := s.decode.frame(data)
		if !ok {
			continue
		}
		s.mu.Lock()
		if s.disposed.Load() {
			s.mu.Unlock()
			return
		}
		changed := s.insertLocked(msg)
		snapshot := append([]Message(nil), s.messages...)
		s.mu.Unlock()
		if changed {
			s.emitMessages(snapshot)
		}
	}
}

// connectionLost handles a read or write failure on conn. A clean EOF
// closes the session; anything else marks it ERROR and alerts.
func (s *Session) connectionLost(conn Conn, err error) {
	s.mu.Lock()
	if s.disposed.Load() || s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	ev := eventFailed
	if errors.Is(err, io.EOF) {
		ev = eventClosed
	}
	next, _ := transition(s.state, ev)
	s.state = next
	s.mu.Unlock()
	_ = conn.Close()

	s.emitState(next)
	if ev == eventFailed {
		log.Printf("chat: connection lost room=%q err=%v", s.roomID, err)
		s.emitAlert(apperrors.Wrap(apperrors.CodeSocketError, "chat connection lost", err))
	}
}

// SendMessage sends text when the session is OPEN and reports whether it
// was written. The message is not appended locally; it arrives through the
// room broadcast. When the session is not OPEN it returns false and starts
// one background reconnect.
func (s *Session) SendMessage(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	s.mu.Lock()
	if s.disposed.Load() {
		s.mu.Unlock()
		return false
	}
	if s.state != StateOpen {
		s.mu.Unlock()
		if s.beginDial() {
			go func() { _ = s.dial(s.ctx) }()
		}
		return false
	}
	conn := s.conn
	s.mu.Unlock()

	data, err := json.Marshal(outboundFrame{
		Content:    text,
		SenderID:   s.identity.ID,
		SenderName: s.identity.Name,
		RoomID:     s.roomID,
	})
	if err != nil {
		return false
	}
	if err := conn.WriteFrame(data); err != nil {
		s.connectionLost(conn, err)
		return false
	}
	return true
}

// FetchHistory loads stored messages and merges them into the list by
// timestamp. Messages already present by id are skipped.
func (s *Session) FetchHistory(ctx context.Context) error {
	if s.disposed.Load() {
		return ErrClosed
	}
	if s.history == nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return nil
	}

	raw, err := s.history.ChatHistory(ctx, s.roomID)
	var history []Message
	if err == nil {
		history, err = s.decode.history(raw)
		if err != nil {
			err = apperrors.Wrap(apperrors.CodeUnexpectedStatus, "decode chat history", err)
		}
	}

	s.mu.Lock()
	if s.disposed.Load() {
		s.mu.Unlock()
		return nil
	}
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		log.Printf("chat: history failed room=%q err=%v", s.roomID, err)
		s.emitAlert(err)
		return err
	}
	changed := false
	for _, msg := range history {
		if s.insertLocked(msg) {
			changed = true
		}
	}
	snapshot := append([]Message(nil), s.messages...)
	s.mu.Unlock()

	if changed {
		s.emitMessages(snapshot)
	}
	return nil
}

// Close tears the session down. The socket is closed when open and no
// further callbacks are delivered. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.disposed.Swap(true) {
		s.mu.Unlock()
		return nil
	}
	conn := s.conn
	s.conn = nil
	s.state, _ = transition(s.state, eventDispose)
	s.mu.Unlock()

	s.cancel()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (s *Session) insertLocked(msg Message) bool {
	if _, dup := s.seen[msg.ID]; dup {
		return false
	}
	s.seen[msg.ID] = struct{}{}
	s.messages = insertOrdered(s.messages, msg)
	return true
}

func (s *Session) emitState(state State) {
	if s.disposed.Load() {
		return
	}
	s.observer.StateChanged(state)
}

func (s *Session) emitMessages(messages []Message) {
	if s.disposed.Load() {
		return
	}
	s.observer.MessagesChanged(messages)
}

func (s *Session) emitAlert(err error) {
	if s.disposed.Load() {
		return
	}
	s.observer.Alert(err)
}
