package runner

import "sync"

// Listener receives lifecycle notifications from a Runner.
//
// Calls are serialized: a listener never sees two notifications at once.
// Listeners must not call back into the Runner synchronously; a callback
// that needs to Launch or Cancel hands the call to another goroutine.
type Listener interface {
	// Started is called once the process is running.
	Started()
	// Output is called with each non-empty chunk of combined stdout and
	// stderr, in arrival order. Runner status lines are delivered here too.
	Output(chunk string)
	// Finished is called exactly once per run that reached Started, and for
	// launch attempts that failed before a process existed.
	Finished(success bool, message string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnStarted  func()
	OnOutput   func(chunk string)
	OnFinished func(success bool, message string)
}

// Started implements Listener.
func (f ListenerFuncs) Started() {
	if f.OnStarted != nil {
		f.OnStarted()
	}
}

// Output implements Listener.
func (f ListenerFuncs) Output(chunk string) {
	if f.OnOutput != nil {
		f.OnOutput(chunk)
	}
}

// Finished implements Listener.
func (f ListenerFuncs) Finished(success bool, message string) {
	if f.OnFinished != nil {
		f.OnFinished(success, message)
	}
}

// Multi fans notifications out to several listeners in order.
func Multi(listeners ...Listener) Listener {
	return multiListener(listeners)
}

type multiListener []Listener

func (m multiListener) Started() {
	for _, l := range m {
		l.Started()
	}
}

func (m multiListener) Output(chunk string) {
	for _, l := range m {
		l.Output(chunk)
	}
}

func (m multiListener) Finished(success bool, message string) {
	for _, l := range m {
		l.Finished(success, message)
	}
}

// EventKind identifies the notification carried by an Event.
type EventKind int

// Event kinds.
const (
	EventStarted EventKind = iota
	EventOutput
	EventFinished
)

// String returns the lowercase name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventOutput:
		return "output"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is a notification delivered through a ChannelListener.
type Event struct {
	Kind    EventKind
	Chunk   string // EventOutput only
	Success bool   // EventFinished only
	Message string // EventFinished only
}

// ChannelListener turns notifications into Events on a channel, for callers
// that prefer a select loop to callbacks. The runner blocks while the
// channel is full, so consumers must keep draining it.
type ChannelListener struct {
	events chan Event
}

// NewChannelListener creates a ChannelListener with the given buffer size.
func NewChannelListener(buffer int) *ChannelListener {
	return &ChannelListener{events: make(chan Event, buffer)}
}

// Events returns the receive side of the event channel.
func (c *ChannelListener) Events() <-chan Event {
	return c.events
}

// Started implements Listener.
func (c *ChannelListener) Started() {
	c.events <- Event{Kind: EventStarted}
}

// Output implements Listener.
func (c *ChannelListener) Output(chunk string) {
	c.events <- Event{Kind: EventOutput, Chunk: chunk}
}

// Finished implements Listener.
func (c *ChannelListener) Finished(success bool, message string) {
	c.events <- Event{Kind: EventFinished, Success: success, Message: message}
}

// Recorder is a Listener that stores every notification. It is safe for
// concurrent use and mostly useful in tests and for post-run inspection.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Started implements Listener.
func (r *Recorder) Started() {
	r.add(Event{Kind: EventStarted})
}

// Output implements Listener.
func (r *Recorder) Output(chunk string) {
	r.add(Event{Kind: EventOutput, Chunk: chunk})
}

// Finished implements Listener.
func (r *Recorder) Finished(success bool, message string) {
	r.add(Event{Kind: EventFinished, Success: success, Message: message})
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
