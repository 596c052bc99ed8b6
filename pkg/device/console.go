package device

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/itohio/powerkeeper/pkg/logger"
	"github.com/itohio/powerkeeper/pkg/telemetry"
)

// console splits device output into telemetry readings and event lines.
type console struct {
	readings chan telemetry.Reading
	events   chan string
	log      *logger.Logger
	now      func() time.Time
}

func newConsole(bufSize int, log *logger.Logger) *console {
	if log == nil {
		log = logger.Nop()
	}
	return &console{
		readings: make(chan telemetry.Reading, bufSize),
		events:   make(chan string, bufSize),
		log:      log,
		now:      time.Now,
	}
}

// run reads lines from r until EOF, read error or ctx cancellation, then
// closes both output channels.
func (c *console) run(ctx context.Context, r io.Reader) {
	defer close(c.readings)
	defer close(c.events)
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("panic in console reader", "panic", r)
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !c.dispatch(ctx, line) {
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		c.log.Warnw("error reading console", "error", err)
	}
}

// dispatch routes one line. It returns false when ctx is done.
func (c *console) dispatch(ctx context.Context, line string) bool {
	reading, err := telemetry.Parse(line)
	switch {
	case errors.Is(err, telemetry.ErrNotTelemetry):
		select {
		case c.events <- line:
		case <-ctx.Done():
			return false
		default:
			c.log.Debugw("events channel full, dropping line", "line", line)
		}
		return true
	case err != nil:
		c.log.Warnw("failed to parse line", "line", line, "error", err)
		return true
	}

	reading.Timestamp = c.now()
	select {
	case c.readings <- reading:
	case <-ctx.Done():
		return false
	default:
		c.log.Warnw("readings channel full, dropping reading")
	}
	return true
}
