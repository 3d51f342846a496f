package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/render"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

// Message types on the websocket.
const (
	MsgDown   = "down"
	MsgMove   = "move"
	MsgUp     = "up"
	MsgLeave  = "leave"
	MsgResize = "resize"

	MsgFrame = "frame"
	MsgDrag  = "drag"
	MsgError = "error"
)

// Inbound is a pointer or resize event from the browser. Coordinates are
// container-local pixels.
type Inbound struct {
	Type   string  `json:"type"`
	Index  *int    `json:"index,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type FrameMessage struct {
	Type       string             `json:"type"`
	Seq        uint64             `json:"seq"`
	Placements []render.Placement `json:"placements"`
}

type DragMessage struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// session owns one connection and one widget. Every write and every widget
// call happens on the widget's Run goroutine; the reader only posts closures.
type session struct {
	conn   *websocket.Conn
	widget *widget.Widget
	inbox  chan func()
	moves  *rate.Limiter
	log    *slog.Logger
	failed bool

	statsID int64
	onGrab  func(item string)
}

func newSession(conn *websocket.Conn, items []techstack.Item, opts []widget.Option, moves *rate.Limiter, log *slog.Logger) (*session, error) {
	s := &session{
		conn:  conn,
		inbox: make(chan func(), 64),
		moves: moves,
		log:   log,
	}
	opts = append(append([]widget.Option{}, opts...),
		widget.WithLogger(log),
		widget.WithDragNotifier(func(active bool) {
			s.write(DragMessage{Type: MsgDrag, Active: active})
			if !active || s.onGrab == nil {
				return
			}
			if i, ok := s.widget.Dragging(); ok {
				s.onGrab(items[i].Name)
			}
		}),
	)
	w, err := widget.New(items, opts...)
	if err != nil {
		return nil, err
	}
	s.widget = w
	return s, nil
}

func (s *session) write(v any) {
	if s.failed {
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.failed = true
		s.log.Debug("write failed", "error", err)
		s.widget.Unmount()
	}
}

func (s *session) sendFrame(placements []render.Placement) {
	s.write(FrameMessage{Type: MsgFrame, Seq: s.widget.Clock().Seq(), Placements: placements})
}

// run mounts the widget and drives it until the client goes away.
func (s *session) run(ctx context.Context, size dynamo.Size, interval time.Duration) error {
	if err := s.widget.Mount(size); err != nil {
		s.write(ErrorMessage{Type: MsgError, Error: err.Error()})
		return err
	}
	defer s.widget.Unmount()
	s.sendFrame(s.widget.Placements())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer cancel()
		s.read(ctx)
	}()

	err := s.widget.Run(ctx, interval, s.inbox, s.sendFrame)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// read decodes inbound messages and posts them to the loop.
func (s *session) read(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		var msg Inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("read failed", "error", err)
			}
			return
		}
		if msg.Type == MsgMove && !s.moves.Allow() {
			continue
		}
		fn := s.handler(msg)
		if fn == nil {
			s.log.Debug("unknown message", "type", msg.Type)
			continue
		}
		select {
		case s.inbox <- fn:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) handler(msg Inbound) func() {
	p := dynamo.V(msg.X, msg.Y)
	switch msg.Type {
	case MsgDown:
		return func() {
			i := -1
			if msg.Index != nil {
				i = *msg.Index
			}
			s.widget.PointerDown(i, p)
		}
	case MsgMove:
		return func() {
			if err := s.widget.PointerMove(p); err != nil {
				s.write(ErrorMessage{Type: MsgError, Error: err.Error()})
			}
		}
	case MsgUp:
		return s.widget.PointerUp
	case MsgLeave:
		return s.widget.PointerLeave
	case MsgResize:
		return func() {
			if err := s.widget.Resize(dynamo.Size{Width: msg.Width, Height: msg.Height}); err != nil {
				s.write(ErrorMessage{Type: MsgError, Error: err.Error()})
				return
			}
			s.sendFrame(s.widget.Placements())
		}
	}
	return nil
}
