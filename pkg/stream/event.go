// Package stream decodes server-sent-event style HTTP response bodies into
// incremental text fragments, delivering status, content, and error events to
// a caller-supplied callback while accumulating the full response text.
//
// The decoder is a finite, single-pass consumer: it terminates on the
// `[DONE]` sentinel, on natural end-of-stream, or on an unrecoverable read
// error, and cannot be restarted.
package stream

// Kind classifies a decoder event.
type Kind string

const (
	// KindStatus marks lifecycle notifications such as stream completion.
	KindStatus Kind = "status"

	// KindContent carries a text fragment that was appended to the
	// accumulated result.
	KindContent Kind = "content"

	// KindError reports a recoverable per-line failure or a fatal stream
	// failure. Per-line errors do not stop decoding.
	KindError Kind = "error"
)

// Event is a single decoder notification delivered to the callback.
type Event struct {
	Kind Kind
	Text string
}

// Callback receives decoder events in stream order. A nil Callback is valid
// and suppresses all notifications.
type Callback func(Event)
