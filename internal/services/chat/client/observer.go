package client

// Observer receives session updates. Callbacks run on session goroutines
// without the session lock held, and none are delivered once Close has been
// called.
type Observer interface {
	MessagesChanged(messages []Message)
	StateChanged(state State)
	Alert(err error)
}

type nopObserver struct{}

func (nopObserver) MessagesChanged([]Message) {}
func (nopObserver) StateChanged(State)        {}
func (nopObserver) Alert(error)               {}
