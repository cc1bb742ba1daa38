// Package stream decodes the line-oriented event stream produced by the
// AI-judge service. The wire format is SSE-style: every logical event is a
// line of the form "data: <payload>", terminated by either "data: [DONE]"
// or "data: ERROR:<message>".
package stream

import (
	"io"
	"strings"
)

// Kind discriminates decoded stream events.
type Kind int

const (
	// KindFragment is a plain text fragment to append to the display buffer.
	KindFragment Kind = iota
	// KindDone marks successful stream completion.
	KindDone
	// KindError marks stream failure; Text carries the message.
	KindError
)

// Event is a single decoded stream event. Exactly one terminal event
// (KindDone or KindError) ends a stream.
type Event struct {
	Kind Kind
	Text string
}

// Terminal reports whether no further events are valid after this one.
func (e Event) Terminal() bool { return e.Kind != KindFragment }

const (
	dataPrefix    = "data:"
	doneSentinel  = "[DONE]"
	errorSentinel = "ERROR:"
)

// Decoder turns raw text chunks into Events. A chunk boundary may split a
// line; the incomplete trailing line is held back and prepended to the next
// chunk, so a fragment is never emitted for a partial line.
type Decoder struct {
	buf    string
	closed bool
}

// Feed consumes one chunk and returns the events completed by it. After a
// terminal event has been returned, Feed returns nil for all further chunks.
func (d *Decoder) Feed(chunk string) []Event {
	if d.closed {
		return nil
	}
	d.buf += chunk

	var events []Event
	for {
		i := strings.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(d.buf[:i], "\r")
		d.buf = d.buf[i+1:]

		ev, ok := decodeLine(line)
		if !ok {
			continue
		}
		events = append(events, ev)
		if ev.Terminal() {
			d.closed = true
			break
		}
	}
	return events
}

// Closed reports whether a terminal event has been emitted.
func (d *Decoder) Closed() bool { return d.closed }

// decodeLine classifies a single complete line. Lines without the data
// prefix carry no event.
func decodeLine(line string) (Event, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}
	payload := strings.TrimPrefix(line, dataPrefix)
	payload = strings.TrimPrefix(payload, " ")

	if payload == doneSentinel {
		return Event{Kind: KindDone}, true
	}
	if strings.HasPrefix(payload, errorSentinel) {
		msg := strings.TrimSpace(strings.TrimPrefix(payload, errorSentinel))
		return Event{Kind: KindError, Text: msg}, true
	}
	return Event{Kind: KindFragment, Text: payload}, true
}

// Decode pumps r through a Decoder, invoking emit for every event, and
// returns once a terminal event has been emitted or emit returns false.
// If the transport fails or ends before the stream's own terminal event, a
// synthetic KindError event is emitted so the caller always observes
// exactly one terminal event.
func Decode(r io.Reader, emit func(Event) bool) {
	d := &Decoder{}
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(string(buf[:n])) {
				if !emit(ev) || ev.Terminal() {
					return
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				emit(Event{Kind: KindError, Text: "stream ended before completion"})
			} else {
				emit(Event{Kind: KindError, Text: err.Error()})
			}
			return
		}
	}
}
