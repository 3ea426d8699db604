package twitter

import (
	"errors"
	"io"
	"time"
)

// DefaultInactivityTimeout is used when a StreamProtocol is constructed
// without an explicit timeout, matching the source's 60 second default.
const DefaultInactivityTimeout = 60 * time.Second

// ErrStreamTimedOut is a sentinel for the inactivity-timeout condition.
// StreamProtocol does not send it on Done(): when the inactivity timer
// fires it closes the body, and Done() receives whatever the pending Read
// then returns (nil if that is io.EOF or io.ErrUnexpectedEOF).
var ErrStreamTimedOut = errors.New("twitter: stream timed out")

// StreamProtocol wraps a frame decoder and an object decoder over a live
// response body, enforcing an inactivity timeout and exposing a
// completion signal.
//
// Grounded on original_source/twittytwister/streaming.py's
// TwitterStream(LengthDelimitedStream, TimeoutMixin): the timer resets on
// every byte, its firing requests the producer to stop rather than
// closing the transport directly (here: body.Close(), the closest Go
// analogue to Twisted's stopProducing on a response-body transport that
// has no real loseConnection), and connection completion is bucketed
// into the same two families — clean/potential-data-loss both resolve
// successfully, anything else resolves as a failure carrying the reason.
type StreamProtocol struct {
	body    io.ReadCloser
	timeout time.Duration
	log     Logger

	frame *frameDecoder
	obj   *objectDecoder

	timer *time.Timer
	done  chan error
}

// NewStreamProtocol constructs a StreamProtocol reading body, delivering
// decoded statuses to delegate. A non-positive timeout selects
// DefaultInactivityTimeout. metrics may be nil.
func NewStreamProtocol(body io.ReadCloser, timeout time.Duration, log Logger, metrics *Metrics, delegate func(*Status)) *StreamProtocol {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	if log == nil {
		log = nopLogger{}
	}
	p := &StreamProtocol{
		body:    body,
		timeout: timeout,
		log:     log,
		obj:     newObjectDecoder(log, metrics, delegate),
		done:    make(chan error, 1),
	}
	p.frame = newFrameDecoder(p.obj.Decode, p.keepAliveReceived)
	return p
}

// RequestStop satisfies Transport: it closes the response body, which
// makes Run's pending Read return promptly so connectionLost can run.
func (p *StreamProtocol) RequestStop() {
	p.body.Close()
}

// Done returns a channel that receives the completion reason: nil for a
// clean end of stream or potential data loss, a non-nil error for
// anything else. It is closed after the single value is sent.
func (p *StreamProtocol) Done() <-chan error {
	return p.done
}

// Run reads body until it errs out or is closed, feeding every chunk
// through the frame and object decoders synchronously. Run blocks; call
// it from its own goroutine.
func (p *StreamProtocol) Run() {
	p.timer = time.AfterFunc(p.timeout, p.timeoutConnection)
	defer p.timer.Stop()

	buf := make([]byte, 8192)
	for {
		n, err := p.body.Read(buf)
		if n > 0 {
			p.resetTimeout()
			p.frame.Feed(buf[:n])
		}
		if err != nil {
			p.connectionLost(err)
			return
		}
	}
}

func (p *StreamProtocol) resetTimeout() {
	if p.timer != nil {
		p.timer.Reset(p.timeout)
	}
}

// timeoutConnection fires when no bytes (including keep-alives) have
// arrived for the configured timeout. It does not close the transport
// directly; it requests the producer stop, which for a response body
// means Close() — the read loop's pending Read then returns and
// connectionLost takes it from there.
func (p *StreamProtocol) timeoutConnection() {
	p.log.Warnf("twitter: stream inactivity timeout, stopping producer")
	p.body.Close()
}

// connectionLost is called once, when Run's Read loop terminates.
func (p *StreamProtocol) connectionLost(reason error) {
	p.timer.Stop()
	if isCleanEOF(reason) {
		p.done <- nil
	} else {
		p.done <- reason
	}
	close(p.done)
}

// keepAliveReceived is the frame decoder's callback for blank lines. It
// has no effect beyond being observable for logging; the timeout is
// already reset by Run on every byte arrival.
func (p *StreamProtocol) keepAliveReceived() {
	p.log.Debugf("twitter: keep-alive received")
}

// isCleanEOF reports whether reason represents a normal end of body
// (io.EOF) or the "potential data loss" condition Go's net/http surfaces
// when a chunked body is closed without a terminating chunk
// (io.ErrUnexpectedEOF) — both resolve the stream successfully per spec.
func isCleanEOF(reason error) bool {
	return errors.Is(reason, io.EOF) || errors.Is(reason, io.ErrUnexpectedEOF)
}
