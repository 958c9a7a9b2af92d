package client

// State is the connection state of a chat session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// event drives state transitions.
type event int

const (
	eventDial event = iota
	eventOpened
	eventFailed
	eventClosed
	eventDispose
)

// transition returns the state after ev, and false when ev is not legal in s.
func transition(s State, ev event) (State, bool) {
	switch ev {
	case eventDial:
		switch s {
		case StateIdle, StateClosed, StateError:
			return StateConnecting, true
		}
	case eventOpened:
		if s == StateConnecting {
			return StateOpen, true
		}
	case eventFailed:
		if s == StateConnecting || s == StateOpen {
			return StateError, true
		}
	case eventClosed:
		if s == StateConnecting || s == StateOpen {
			return StateClosed, true
		}
	case eventDispose:
		return StateClosed, true
	}
	return s, false
}
