package http

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/core"
	"github.com/podium-live/podium-server/internal/proto"
	"github.com/podium-live/podium-server/internal/render"
)

const (
	writeTimeout  = 5 * time.Second
	outboundDepth = 32
)

var (
	errConnClosed   = errors.New("connection closed")
	errSlowConsumer = errors.New("slow consumer")
)

// wsConn adapts a websocket connection to core.Conn. Outbound lines go
// through a buffered channel drained by a single write loop, so the
// room never blocks on a peer; a full buffer counts as a dead peer.
type wsConn struct {
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newWSConn() *wsConn {
	return &wsConn{
		out:    make(chan string, outboundDepth),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg string) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	select {
	case c.out <- msg:
		return nil
	case <-c.closed:
		return errConnClosed
	default:
		return errSlowConsumer
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// WSHandler upgrades HTTP connections and bridges them into the room.
// The requested nickname arrives as the nick query parameter.
func WSHandler(session *core.Session, renderer *render.Renderer, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error().Err(err).Msg("ws accept error")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		connID := uuid.NewString()
		handle := newWSConn()
		client := session.Register(c.Query("nick"), handle)
		defer session.Unregister(client.Nick)

		logger.Info().
			Str("conn_id", connID).
			Str("nick", client.Nick).
			Str("role", string(client.Role)).
			Msg("ws opened")

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Role-specific panel goes to the new client once, then a
		// late joiner is caught up if the presentation already runs.
		if err := sendPanel(handle, session, renderer, client.Role); err != nil {
			logger.Error().Err(err).Str("nick", client.Nick).Msg("send panel content")
			return
		}
		session.SendStartTo(handle)

		router := core.NewRouter(session, logger)

		errCh := make(chan error, 2)
		go func() {
			errCh <- readLoop(ctx, conn, router, client)
		}()
		go func() {
			errCh <- writeLoop(ctx, conn, handle)
		}()

		err = <-errCh
		cancel()
		_ = handle.Close()
		<-errCh

		status := websocket.StatusNormalClosure
		reason := "closing"
		if err != nil && !errors.Is(err, context.Canceled) {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			if s := websocket.CloseStatus(err); s != 0 {
				status = s
			}
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				err = nil
			}
			if err != nil {
				if status == websocket.StatusNormalClosure {
					status = websocket.StatusInternalError
				}
				reason = err.Error()
				logger.Warn().Err(err).Str("nick", client.Nick).Msg("ws connection closed with error")
			}
		}

		logger.Info().Str("conn_id", connID).Str("nick", client.Nick).Msg("ws closed")
		conn.Close(status, reason)
	}
}

func sendPanel(handle *wsConn, session *core.Session, renderer *render.Renderer, role core.Role) error {
	var (
		panel string
		err   error
	)
	if role == core.RoleInstructor {
		panel, err = renderer.InstructorPanel()
	} else {
		panel, err = renderer.ParticipantPanel(session.LockStudentNav())
	}
	if err != nil {
		return err
	}
	return handle.Send(proto.Encode(proto.CmdPanelContent, panel))
}

func readLoop(ctx context.Context, conn *websocket.Conn, router *core.Router, client *core.Client) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}
		router.Dispatch(client, string(data))
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, handle *wsConn) error {
	for {
		select {
		case msg := <-handle.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, []byte(msg))
			cancel()
			if err != nil {
				return err
			}
		case <-handle.closed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
