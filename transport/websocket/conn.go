package websocket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 4 * 1024
	writeTimeout   = 10 * time.Second
)

// socketConn adapts a WebSocket to player.Transport. Binary frames are skipped.
type socketConn struct {
	ws          *websocket.Conn
	idleTimeout time.Duration
}

func newSocketConn(ws *websocket.Conn, idleTimeout time.Duration) *socketConn {
	ws.SetReadLimit(maxMessageSize)

	return &socketConn{
		ws:          ws,
		idleTimeout: idleTimeout,
	}
}

func (that *socketConn) ReadLine() (string, error) {
	for {
		if that.idleTimeout > 0 {
			if err := that.ws.SetReadDeadline(time.Now().Add(that.idleTimeout)); err != nil {
				return "", fmt.Errorf("failed to set read deadline: %w", err)
			}
		}

		messageType, data, err := that.ws.ReadMessage()
		if err != nil {
			if isDisconnect(err) {
				return "", io.EOF
			}

			return "", fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (that *socketConn) WriteLine(line string) error {
	if err := that.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Close says goodbye with a normal close frame, then drops the connection.
func (that *socketConn) Close() error {
	_ = that.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)

	return that.ws.Close()
}

func (that *socketConn) RemoteAddr() string {
	return that.ws.RemoteAddr().String()
}

func isDisconnect(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrUnexpectedEOF)
}
