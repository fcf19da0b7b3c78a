package player

import (
	"errors"
	"log/slog"
	"sync"
)

const outboxSize = 32

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSlowConsumer     = errors.New("outbox overflow")
)

// Transport is a line-oriented duplex channel to one client.
type Transport interface {
	// ReadLine blocks until the next line arrives. It returns io.EOF once the client is gone.
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// Connection owns one Transport. Lines sent to it are queued and written in order by a
// single writer goroutine, so neither player ever blocks on the other's socket.
type Connection struct {
	logger    *slog.Logger
	transport Transport

	mu     sync.Mutex
	outbox chan string
	closed bool

	done chan struct{}
}

func NewConnection(logger *slog.Logger, transport Transport) *Connection {
	conn := &Connection{
		logger:    logger,
		transport: transport,
		outbox:    make(chan string, outboxSize),
		done:      make(chan struct{}),
	}

	go conn.writeLoop()

	return conn
}

// Send queues line for the client. A client that falls outboxSize lines behind is disconnected.
func (that *Connection) Send(line string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrConnectionClosed
	}

	select {
	case that.outbox <- line:
		return nil
	default:
		that.closeLocked()
		return ErrSlowConsumer
	}
}

// Close stops accepting lines. Queued lines are still flushed before the transport is closed.
func (that *Connection) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()

	return nil
}

// Done is closed once the transport has been released.
func (that *Connection) Done() <-chan struct{} {
	return that.done
}

func (that *Connection) closeLocked() {
	if that.closed {
		return
	}

	that.closed = true
	close(that.outbox)
}

func (that *Connection) writeLoop() {
	defer close(that.done)

	for line := range that.outbox {
		if err := that.transport.WriteLine(line); err != nil {
			that.logger.Error("failed to write to client", "error", err)
			break
		}
	}

	if err := that.transport.Close(); err != nil {
		that.logger.Debug("failed to close transport", "error", err)
	}
}
