package source

import (
	"context"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// #region socket

// sampleFrame is one JSON message on the wire. Final=true marks the last
// frame of a stream; the window it carries may be empty.
type sampleFrame struct {
	Window []float32 `json:"window"`
	Final  bool      `json:"final,omitempty"`
}

// Socket reads sample windows as JSON frames from a websocket feed. Frames
// arrive at whatever cadence the producer uses; the engine consumes them one
// Next call at a time.
type Socket struct {
	conn *websocket.Conn
	done bool
}

// DialSocket connects to a websocket sample feed.
func DialSocket(ctx context.Context, url string) (*Socket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial sample feed %s: %w", url, err)
	}
	return &Socket{conn: conn}, nil
}

// Next reads one frame. Returns io.EOF after the final frame or a clean
// close. The read honors ctx via a deadline reset when ctx carries one.
func (s *Socket) Next(ctx context.Context) ([]float32, error) {
	if s.done {
		return nil, io.EOF
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
	}

	var frame sampleFrame
	if err := s.conn.ReadJSON(&frame); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.done = true
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read sample frame: %w", err)
	}
	if frame.Final {
		s.done = true
		if len(frame.Window) == 0 {
			return nil, io.EOF
		}
	}
	return frame.Window, nil
}

// Close closes the underlying connection.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// #endregion socket

var _ SampleSource = (*Socket)(nil)
