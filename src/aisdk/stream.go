package aisdk

import (
	"errors"
	"io"
	"strings"
)

// EventKind discriminates stream events. The set is closed.
type EventKind int

const (
	// EventText carries an incremental chunk of assistant text.
	EventText EventKind = iota
	// EventToolCall carries a tool call that has already been dispatched
	// and resolved by the gateway's tool-use loop.
	EventToolCall
	// EventDone marks the clean end of the stream. A stream that closes
	// without EventDone was interrupted.
	EventDone
)

// StreamEvent is one element of a streamed model response.
type StreamEvent struct {
	Kind     EventKind
	Text     string
	ToolCall *ToolCall
}

// Stream reads streamed model output in generation order. After EventDone,
// Read returns io.EOF.
type Stream interface {
	Read() (*StreamEvent, error)
	Close() error
}

// StreamCallback is invoked for each event read from a stream.
type StreamCallback func(ev *StreamEvent) error

// StreamToCallback drains a stream, invoking the callback per event. It
// returns an error if the transport fails before the terminal event.
func StreamToCallback(stream Stream, callback StreamCallback) error {
	defer stream.Close()

	for {
		ev, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ev == nil {
			return nil
		}
		if err := callback(ev); err != nil {
			return err
		}
		if ev.Kind == EventDone {
			return nil
		}
	}
}

// StreamAccumulator collects streamed events into the final turn state.
type StreamAccumulator struct {
	content   strings.Builder
	toolCalls []ToolCall
	done      bool
}

// Add folds one event into the accumulator.
func (a *StreamAccumulator) Add(ev *StreamEvent) {
	switch ev.Kind {
	case EventText:
		a.content.WriteString(ev.Text)
	case EventToolCall:
		if ev.ToolCall != nil {
			a.toolCalls = append(a.toolCalls, *ev.ToolCall)
		}
	case EventDone:
		a.done = true
	}
}

// Content returns the accumulated assistant text.
func (a *StreamAccumulator) Content() string { return a.content.String() }

// ToolCalls returns the resolved tool calls in arrival order.
func (a *StreamAccumulator) ToolCalls() []ToolCall { return a.toolCalls }

// Done reports whether the terminal event was observed.
func (a *StreamAccumulator) Done() bool { return a.done }

// EventStream is a channel-backed Stream implementation used by gateway
// providers and test fakes.
type EventStream struct {
	ch     chan streamItem
	closed chan struct{}
}

type streamItem struct {
	ev  *StreamEvent
	err error
}

// NewEventStream creates an EventStream with a small buffer.
func NewEventStream() *EventStream {
	return &EventStream{
		ch:     make(chan streamItem, 16),
		closed: make(chan struct{}),
	}
}

// Send delivers an event to the reader. It returns false if the stream was
// closed by the consumer.
func (s *EventStream) Send(ev *StreamEvent) bool {
	select {
	case s.ch <- streamItem{ev: ev}:
		return true
	case <-s.closed:
		return false
	}
}

// Fail delivers a transport error and ends the stream. Subsequent reads
// return io.EOF.
func (s *EventStream) Fail(err error) {
	select {
	case s.ch <- streamItem{err: err}:
		close(s.ch)
	case <-s.closed:
	}
}

// Finish sends the terminal event and ends the stream.
func (s *EventStream) Finish() {
	if s.Send(&StreamEvent{Kind: EventDone}) {
		close(s.ch)
	}
}

// Read implements Stream.
func (s *EventStream) Read() (*StreamEvent, error) {
	item, ok := <-s.ch
	if !ok {
		return nil, io.EOF
	}
	if item.err != nil {
		return nil, item.err
	}
	return item.ev, nil
}

// Close implements Stream.
func (s *EventStream) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}
