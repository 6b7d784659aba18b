package orchestrator

import "github.com/user/vaultagent/src/aisdk"

// EventSink receives turn progress for the presentation layer. Callbacks are
// invoked synchronously, in the exact order events arrive from the model.
type EventSink interface {
	// OnText delivers one incremental chunk of assistant text.
	OnText(chunk string)
	// OnToolCall delivers a resolved tool call.
	OnToolCall(call *aisdk.ToolCall)
	// OnFinal delivers the terminal message of the turn, bot or error.
	OnFinal(msg *aisdk.Message)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnText(string)                 {}
func (NopSink) OnToolCall(*aisdk.ToolCall)    {}
func (NopSink) OnFinal(*aisdk.Message)        {}

func sinkOrNop(s EventSink) EventSink {
	if s == nil {
		return NopSink{}
	}
	return s
}
