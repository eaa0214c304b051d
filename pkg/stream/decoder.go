package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// contentChunk is the JSON shape of a structured data payload. Only the
// content field matters; anything else in the object is ignored.
type contentChunk struct {
	Content *string `json:"content"`
}

// Decoder consumes newline-delimited SSE data lines from a streaming HTTP
// response body and accumulates the decoded text fragments.
type Decoder struct {
	scanner *bufio.Scanner
	cb      Callback

	result strings.Builder
	done   bool
}

// NewDecoder returns a Decoder reading from src. The callback may be nil.
func NewDecoder(src io.Reader, cb Callback) *Decoder {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Decoder{
		scanner: scanner,
		cb:      cb,
	}
}

// Run reads the stream to completion and returns the accumulated text.
//
// Empty lines and lines without the data prefix are ignored. Each data
// payload is appended either as the JSON object's content field or, when the
// payload is not valid JSON, as raw text followed by a single space. A
// malformed line (invalid byte sequence) produces one error event and is
// skipped. A read error on the underlying stream produces one error event
// and returns the text accumulated so far along with the error.
func (d *Decoder) Run() (string, error) {
	for !d.done && d.scanner.Scan() {
		d.decodeLine(d.scanner.Text())
	}

	if err := d.scanner.Err(); err != nil {
		d.emit(Event{Kind: KindError, Text: "stream read failed: " + err.Error()})
		return d.result.String(), err
	}

	return d.result.String(), nil
}

// Result returns the text accumulated so far. It is mainly useful after Run
// returns an error, when a partial result may still be worth surfacing.
func (d *Decoder) Result() string {
	return d.result.String()
}

func (d *Decoder) decodeLine(line string) {
	if line == "" || !strings.HasPrefix(line, dataPrefix) {
		return
	}

	if !utf8.ValidString(line) {
		d.emit(Event{Kind: KindError, Text: "skipping malformed stream line"})
		return
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))

	if payload == doneSentinel {
		d.done = true
		d.emit(Event{Kind: KindStatus, Text: "stream complete"})
		return
	}

	var chunk contentChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err == nil {
		if chunk.Content != nil {
			d.append(*chunk.Content)
		}
		return
	}

	// Not JSON: treat the payload as plain text. The trailing space keeps
	// consecutive plain-text fragments from running together.
	d.append(payload + " ")
}

func (d *Decoder) append(fragment string) {
	d.result.WriteString(fragment)
	d.emit(Event{Kind: KindContent, Text: fragment})
}

func (d *Decoder) emit(ev Event) {
	if d.cb != nil {
		d.cb(ev)
	}
}
