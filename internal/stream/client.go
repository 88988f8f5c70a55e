package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = time.Second
	// Maximum message size allowed from the peer.
	maxMessageSize = 8192

	pingResolution = 200 * time.Millisecond
	// Number of lost pings tolerated before the peer is considered gone.
	pongWait = pingResolution * 4
)

// ErrPongDeadlineExceeded is returned when a client stops answering pings.
var ErrPongDeadlineExceeded = errors.New("client disconnect, pong deadline exceeded")

// ErrSockCongestion indicates a socket operation waited too long for its turn.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

var upgrader = websocket.Upgrader{}

// client publishes frames to one websocket peer. Frames arriving faster than
// the publish interval are dropped; each frame fully describes the grid so
// only the latest matters.
type client struct {
	frames   <-chan Frame
	ws       *websock
	interval time.Duration
}

func newClient(frames <-chan Frame, interval time.Duration, w http.ResponseWriter, r *http.Request) (*client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)
	return &client{frames: frames, ws: newWebsock(conn), interval: interval}, nil
}

// sync runs the reader, the ping loop and the publisher until the peer
// disconnects or ctx ends. A clean shutdown returns nil.
func (cli *client) sync(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return cli.readMessages(groupCtx) })
	group.Go(func() error { return cli.pingPong(groupCtx) })
	group.Go(func() error {
		err := cli.publish(groupCtx)
		// Unblocks readMessages once publishing stops.
		cli.ws.close()
		return err
	})

	err := group.Wait()
	if isClosure(err) {
		return nil
	}
	return err
}

func (cli *client) pingPong(ctx context.Context) error {
	var lastPong atomic.Int64
	lastPong.Store(time.Now().UnixNano())
	cli.ws.conn.SetPongHandler(func(string) error {
		lastPong.Store(time.Now().UnixNano())
		return nil
	})

	for range channerics.NewTicker(ctx.Done(), pingResolution) {
		if time.Since(time.Unix(0, lastPong.Load())) > pongWait {
			return ErrPongDeadlineExceeded
		}
		err := cli.ws.write(ctx, func(conn *websocket.Conn) error {
			return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
		if err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
	}
	return nil
}

// readMessages drains the peer so control frames are processed. Reads fail
// permanently, so any error ends the client.
func (cli *client) readMessages(ctx context.Context) error {
	for {
		if _, _, err := cli.ws.conn.ReadMessage(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (cli *client) publish(ctx context.Context) error {
	var lastSync time.Time
	for frame := range channerics.OrDone(ctx.Done(), cli.frames) {
		if time.Since(lastSync) < cli.interval {
			continue
		}
		lastSync = time.Now()
		err := cli.ws.write(ctx, func(conn *websocket.Conn) error {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to set deadline: %w", err)
			}
			return conn.WriteJSON(frame)
		})
		if err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}
	}
	return nil
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

// websock serializes writes; gorilla connections allow one concurrent writer.
type websock struct {
	writeSem chan struct{}
	conn     *websocket.Conn
	closed   atomic.Bool
}

func newWebsock(conn *websocket.Conn) *websock {
	return &websock{writeSem: make(chan struct{}, 1), conn: conn}
}

func (sock *websock) write(ctx context.Context, fn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return fn(sock.conn)
	case <-time.After(writeWait):
		return ErrSockCongestion
	}
}

// close says goodbye to the peer and closes the connection. Later calls are
// no-ops.
func (sock *websock) close() {
	if !sock.closed.CompareAndSwap(false, true) {
		return
	}
	sock.writeSem <- struct{}{}
	_ = sock.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = sock.conn.Close()
	<-sock.writeSem
}
