package fakebackend

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"golang.org/x/net/websocket"
)

const (
	maxRoomMessages        = 200
	maxMessageRunes        = 2000
	maxDecodeErrorsPerConn = 3
)

type messageSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

type roomMessage struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	RoomID    string        `json:"roomId"`
	Content   string        `json:"content"`
	Sender    messageSender `json:"sender"`
	CreatedAt string        `json:"createdAt"`
}

type inboundFrame struct {
	Content    string `json:"content"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	RoomID     string `json:"roomId"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

type roomHub struct {
	mu    sync.Mutex
	rooms map[string]*chatRoom
}

func newRoomHub() *roomHub {
	return &roomHub{rooms: make(map[string]*chatRoom)}
}

func (h *roomHub) room(roomID string) *chatRoom {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if ok {
		return room
	}
	room = &chatRoom{roomID: roomID, subscribers: make(map[*wsPeer]struct{})}
	h.rooms[roomID] = room
	return room
}

type chatRoom struct {
	mu          sync.Mutex
	roomID      string
	nextSeq     int
	messages    []roomMessage
	subscribers map[*wsPeer]struct{}
}

func (r *chatRoom) join(peer *wsPeer) {
	r.mu.Lock()
	r.subscribers[peer] = struct{}{}
	r.mu.Unlock()
}

func (r *chatRoom) leave(peer *wsPeer) {
	r.mu.Lock()
	delete(r.subscribers, peer)
	r.mu.Unlock()
}

func (r *chatRoom) subscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// appendMessage stores a message and returns it with the peers to notify.
func (r *chatRoom) appendMessage(sender messageSender, content string, at time.Time) (roomMessage, []*wsPeer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	msg := roomMessage{
		Type:      "NEW_MESSAGE",
		ID:        r.roomID + "-msg-" + strconv.Itoa(r.nextSeq),
		RoomID:    r.roomID,
		Content:   content,
		Sender:    sender,
		CreatedAt: at.UTC().Format(time.RFC3339Nano),
	}
	r.messages = append(r.messages, msg)
	if len(r.messages) > maxRoomMessages {
		r.messages = r.messages[len(r.messages)-maxRoomMessages:]
	}
	subscribers := make([]*wsPeer, 0, len(r.subscribers))
	for subscriber := range r.subscribers {
		subscribers = append(subscribers, subscriber)
	}
	return msg, subscribers
}

func (r *chatRoom) history() []roomMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]roomMessage(nil), r.messages...)
}

func broadcast(msg roomMessage, peers []*wsPeer) {
	for _, peer := range peers {
		if err := peer.writeFrame(msg); err != nil {
			log.Printf("fakebackend: broadcast failed room=%q err=%v", msg.RoomID, err)
		}
	}
}

// PostMessage appends a message from sender to roomID and broadcasts it to
// connected clients.
func (s *Server) PostMessage(roomID, senderEmail, senderName, content string, at time.Time) string {
	msg, peers := s.hub.room(roomID).appendMessage(messageSender{Email: senderEmail, Name: senderName}, content, at)
	broadcast(msg, peers)
	return msg.ID
}

// Subscribers reports how many sockets are joined to roomID.
func (s *Server) Subscribers(roomID string) int {
	return s.hub.room(roomID).subscriberCount()
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(mux.Vars(r)["roomId"])
	writeJSON(w, http.StatusOK, s.hub.room(roomID).history())
}

func (s *Server) handleSocket(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	request := conn.Request()
	roomID := strings.TrimSpace(request.URL.Query().Get("roomId"))
	if roomID == "" {
		log.Printf("fakebackend: socket rejected: missing roomId")
		return
	}
	acct := s.currentUser(request.Context())
	sender := messageSender{Email: acct.Email, Name: acct.Name, Role: acct.Role}
	if sender.Email == "" {
		sender.Email = strings.TrimSpace(request.URL.Query().Get("userId"))
	}

	room := s.hub.room(roomID)
	peer := newWSPeer(json.NewEncoder(conn))
	room.join(peer)
	defer room.leave(peer)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var frame inboundFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		content := strings.TrimSpace(frame.Content)
		if content == "" || utf8.RuneCountInString(content) > maxMessageRunes {
			continue
		}
		from := sender
		if from.Name == "" {
			from.Name = frame.SenderName
		}
		msg, peers := room.appendMessage(from, content, s.now())
		broadcast(msg, peers)
	}
}
