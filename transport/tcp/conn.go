package tcp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	maxLineSize  = 4 * 1024
	writeTimeout = 10 * time.Second
)

// lineConn speaks newline-terminated lines over a net.Conn. A trailing '\r' is dropped.
type lineConn struct {
	conn        net.Conn
	scanner     *bufio.Scanner
	idleTimeout time.Duration
}

func newLineConn(conn net.Conn, idleTimeout time.Duration) *lineConn {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLineSize)

	return &lineConn{
		conn:        conn,
		scanner:     scanner,
		idleTimeout: idleTimeout,
	}
}

func (that *lineConn) ReadLine() (string, error) {
	if that.idleTimeout > 0 {
		if err := that.conn.SetReadDeadline(time.Now().Add(that.idleTimeout)); err != nil {
			return "", fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	if that.scanner.Scan() {
		return that.scanner.Text(), nil
	}

	err := that.scanner.Err()
	if err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return "", io.EOF
	}

	return "", fmt.Errorf("failed to read line: %w", err)
}

func (that *lineConn) WriteLine(line string) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if _, err := io.WriteString(that.conn, line+"\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	return nil
}

func (that *lineConn) Close() error {
	return that.conn.Close()
}

func (that *lineConn) RemoteAddr() string {
	return that.conn.RemoteAddr().String()
}
