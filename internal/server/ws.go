package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rickgao/bazaarsetu/internal/model"
	"github.com/rickgao/bazaarsetu/internal/session"
	"github.com/rickgao/bazaarsetu/internal/view"
)

// Message types exchanged over a screen session.
const (
	MsgView     = "view"     // server -> client
	MsgError    = "error"    // server -> client
	MsgCriteria = "criteria" // home only; replaces the whole filter state
	MsgLanguage = "lang"
	MsgDays     = "days" // trend only
	MsgRefresh  = "refresh"
)

// Session kinds recorded in the registry.
const (
	KindHome   = "home"
	KindMarket = "market"
	KindTrend  = "trend"
)

const maxClientMessage = 4096

// ClientMessage is a mutation sent by the client.
type ClientMessage struct {
	Type     string `json:"type"`
	StateID  *int   `json:"state_id,omitempty"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Search   string `json:"search,omitempty"`
	Lang     string `json:"lang,omitempty"`
	Days     int    `json:"days,omitempty"`
}

// ServerMessage is pushed to the client.
type ServerMessage struct {
	Type    string    `json:"type"`
	Session uuid.UUID `json:"session"`
	View    any       `json:"view,omitempty"`
	Error   string    `json:"error,omitempty"`
}

var errUnknownMessage = errors.New("unknown message type")

// liveScreen is what a WebSocket session drives.
type liveScreen interface {
	session.Screen
	Changes() <-chan uint64
	Done() <-chan struct{}
	SetLanguage(model.Language)
}

type sessionSpec struct {
	kind   string
	screen liveScreen
	render func() any
	handle func(ClientMessage) error // screen-specific messages
}

func (s *Server) handleHomeSession(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFor(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	home := view.NewHome(r.Context(), s.src, languageFor(r), criteria, s.logger)

	s.serveSession(w, r, sessionSpec{
		kind:   KindHome,
		screen: home,
		render: func() any { return home.View() },
		handle: func(msg ClientMessage) error {
			if msg.Type != MsgCriteria {
				return errUnknownMessage
			}
			home.SetCriteria(model.FilterCriteria{
				StateID:  msg.StateID,
				Category: model.Category(msg.Category),
				Sort:     model.SortKey(msg.Sort),
				Search:   msg.Search,
			})
			if msg.Lang != "" {
				home.SetLanguage(model.Language(msg.Lang))
			}
			return nil
		},
	})
}

func (s *Server) handleMarketSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	market := view.NewMarketDetail(r.Context(), s.src, languageFor(r), id, s.logger)

	s.serveSession(w, r, sessionSpec{
		kind:   KindMarket,
		screen: market,
		render: func() any { return market.View() },
		handle: func(ClientMessage) error { return errUnknownMessage },
	})
}

func (s *Server) handleTrendSession(w http.ResponseWriter, r *http.Request) {
	q, err := trendQueryFor(r, s.cfg.DefaultTrendDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	pt := view.NewPriceTrend(r.Context(), s.src, languageFor(r), q, s.logger)

	s.serveSession(w, r, sessionSpec{
		kind:   KindTrend,
		screen: pt,
		render: func() any { return pt.View() },
		handle: func(msg ClientMessage) error {
			if msg.Type != MsgDays {
				return errUnknownMessage
			}
			pt.SetDays(msg.Days)
			return nil
		},
	})
}

// serveSession registers the screen, upgrades the connection and pumps
// views until either side goes away. The screen is closed on return.
func (s *Server) serveSession(w http.ResponseWriter, r *http.Request, spec sessionSpec) {
	id, err := s.sessions.Add(spec.kind, spec.screen)
	if err != nil {
		spec.screen.Close()
		if errors.Is(err, session.ErrFull) {
			s.writeError(w, http.StatusServiceUnavailable, err)
		} else {
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	defer s.sessions.Remove(id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sc := &sessionConn{
		Server: s,
		conn:   conn,
		id:     id,
		spec:   spec,
		quit:   make(chan struct{}),
	}

	s.logger.Debug("session opened", "session", id, "kind", spec.kind)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc.writeLoop()
	}()

	sc.readLoop()
	close(sc.quit)
	wg.Wait()

	s.logger.Debug("session ended", "session", id, "kind", spec.kind)
}

// sessionConn is one WebSocket bound to one screen.
type sessionConn struct {
	*Server

	conn *websocket.Conn
	id   uuid.UUID
	spec sessionSpec
	quit chan struct{} // closed when the read loop exits

	writeMu sync.Mutex
}

func (c *sessionConn) send(msg ServerMessage) error {
	msg.Session = c.id

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

func (c *sessionConn) sendView() error {
	return c.send(ServerMessage{Type: MsgView, View: c.spec.render()})
}

// writeLoop pushes the current view after every change and keeps the
// connection alive with pings.
func (c *sessionConn) writeLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	if err := c.sendView(); err != nil {
		c.logger.Debug("failed to send view", "session", c.id, "error", err)
		c.conn.Close()
		return
	}

	for {
		select {
		case <-c.quit:
			return

		case <-c.spec.screen.Done():
			// Reaped or shut down.
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
			if err := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
				c.logger.Debug("failed to send close", "session", c.id, "error", err)
			}
			c.conn.Close()
			return

		case <-c.spec.screen.Changes():
			if err := c.sendView(); err != nil {
				c.logger.Debug("failed to send view", "session", c.id, "error", err)
				c.conn.Close()
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.logger.Debug("failed to send ping", "session", c.id, "error", err)
			}
		}
	}
}

// readLoop applies client messages until the connection fails or closes.
func (c *sessionConn) readLoop() {
	c.conn.SetReadLimit(maxClientMessage)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.sessions.Touch(c.id)
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("session read failed", "session", c.id, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
		c.sessions.Touch(c.id)

		if err := c.apply(data); err != nil {
			c.logger.Debug("rejected client message", "session", c.id, "error", err)
			if err := c.send(ServerMessage{Type: MsgError, Error: err.Error()}); err != nil {
				return
			}
		}
	}
}

func (c *sessionConn) apply(data []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	switch msg.Type {
	case MsgLanguage:
		c.spec.screen.SetLanguage(model.Language(msg.Lang))
		return nil
	case MsgRefresh:
		go c.refresh()
		return nil
	}

	if err := c.spec.handle(msg); err != nil {
		return fmt.Errorf("%s session: %q: %w", c.spec.kind, msg.Type, err)
	}
	return nil
}

func (c *sessionConn) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ViewTimeout)
	defer cancel()

	if err := c.spec.screen.Refresh(ctx); err != nil && !errors.Is(err, view.ErrClosed) {
		c.logger.Debug("session refresh failed", "session", c.id, "error", err)
	}
}
