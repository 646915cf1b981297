package notify

import "sync"

// Recorder captures dispatched messages for inspection. It delivers
// synchronously so tests never need to wait on a goroutine.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Dispatch(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Sent returns every dispatched message in order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// SentTo returns the messages addressed to a recipient.
func (r *Recorder) SentTo(to string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []Message
	for _, msg := range r.messages {
		if msg.To == to {
			matched = append(matched, msg)
		}
	}
	return matched
}

// Noop discards every message.
type Noop struct{}

func (Noop) Dispatch(Message) {}
