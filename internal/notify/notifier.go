// Package notify is the outbound notification sink. Delivery is
// fire-and-forget: the financial transaction has already committed by the
// time a message is dispatched, so a delivery failure is logged and dropped,
// never surfaced to the caller.
package notify

// A Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Notifier interface {
	Dispatch(msg Message)
}
