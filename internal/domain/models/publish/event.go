package publish

// EventKind classifies a progress line
type EventKind string

const (
	EventInfo    EventKind = "info"
	EventSuccess EventKind = "success"
	EventError   EventKind = "error"
	EventDone    EventKind = "done"
)

// Event is one immutable line of a publishing progress feed.
type Event struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text"`
}

func (e Event) String() string { return e.Text }

// IsError reports whether the step this event describes failed
func (e Event) IsError() bool { return e.Kind == EventError }

func Info(text string) Event    { return Event{Kind: EventInfo, Text: text} }
func Success(text string) Event { return Event{Kind: EventSuccess, Text: text} }
func Error(text string) Event   { return Event{Kind: EventError, Text: text} }
func Done(text string) Event    { return Event{Kind: EventDone, Text: text} }
