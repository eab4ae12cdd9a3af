package ingest

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/nxadm/tail"

	"github.com/user/taillight/internal/store"
)

// Kind classifies pump events.
type Kind int

const (
	// KindActivity signals that new lines were appended to the store.
	KindActivity Kind = iota
	// KindClosed signals end of stream; buffered content stays viewable.
	KindClosed
	// KindError signals a read failure; ingestion stops as if at EOF.
	KindError
)

// Event is published on the pump's channel for the UI to react to.
type Event struct {
	Kind Kind
	Err  error
}

// Pump reads an input stream line by line and appends into the store
// from its own goroutine. It never blocks on the UI: activity events
// are coalesced by dropping them while the channel buffer is full.
type Pump struct {
	store  *store.Store
	events chan Event
}

// NewPump creates a pump appending into s.
func NewPump(s *store.Store) *Pump {
	return &Pump{
		store:  s,
		events: make(chan Event, 4),
	}
}

// Events delivers activity notifications and terminal events (closed,
// error). Activity events are best-effort; dropped ones were already
// covered by a pending notification.
func (p *Pump) Events() <-chan Event {
	return p.events
}

// RunReader consumes r until EOF or error. Partial trailing data
// without a newline is flushed as a final line at end of stream.
func (p *Pump) RunReader(ctx context.Context, r io.Reader) {
	reader := bufio.NewReaderSize(r, 128*1024)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			p.append(line)
			p.notify()
		}
		if err == io.EOF {
			p.send(ctx, Event{Kind: KindClosed})
			return
		}
		if err != nil {
			p.send(ctx, Event{Kind: KindError, Err: err})
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// RunTail follows a file path, surviving truncation and rotation.
func (p *Pump) RunTail(ctx context.Context, path string) {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	t, err := tail.TailFile(path, cfg)
	if err != nil {
		p.send(ctx, Event{Kind: KindError, Err: err})
		return
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines:
			if !ok {
				p.send(ctx, Event{Kind: KindClosed})
				return
			}
			if line.Err != nil {
				p.send(ctx, Event{Kind: KindError, Err: line.Err})
				return
			}
			p.append(line.Text + "\n")
			p.notify()
		}
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func (p *Pump) append(line string) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	// Colored producers (journalctl, dmesg --color) embed SGR escape
	// sequences. The escape bytes have no display width, so they would
	// skew wrap segmentation and match offsets; coloring is owned by
	// the pattern highlighter, so the input's own codes are dropped.
	line = ansiEscape.ReplaceAllString(line, "")
	// Invalid byte sequences display as the replacement character;
	// sanitizing here keeps match offsets aligned with rendered text.
	line = strings.ToValidUTF8(line, "�")
	p.store.Append(line)
}

// notify publishes an activity event unless the buffer already holds
// pending notifications for the same content.
func (p *Pump) notify() {
	select {
	case p.events <- Event{Kind: KindActivity}:
	default:
	}
}

func (p *Pump) send(ctx context.Context, ev Event) {
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}
