package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/config"
	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/models/destination"
	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	searchEventBuffer = 64
	wsWriteTimeout    = 10 * time.Second
	wsReadLimit       = 4096
)

// DestinationHandler serves one-shot destination searches and live search
// sessions over WebSocket.
type DestinationHandler struct {
	search         DestinationSearcher
	live           destination.Searcher
	sessionCfg     destination.SessionConfig
	metrics        *metrics.Metrics
	allowedOrigins []string
	isDevelopment  bool
}

func NewDestinationHandler(
	search DestinationSearcher,
	live destination.Searcher,
	sessionCfg destination.SessionConfig,
	m *metrics.Metrics,
	serverCfg *config.ServerConfig,
) *DestinationHandler {
	return &DestinationHandler{
		search:         search,
		live:           live,
		sessionCfg:     sessionCfg,
		metrics:        m,
		allowedOrigins: serverCfg.AllowedOrigins,
		isDevelopment:  serverCfg.Environment == config.EnvDevelopment,
	}
}

// SearchHandler godoc
// @Summary Search destinations
// @Description Grouped destination suggestions. A country code scopes the search.
// @Tags destinations
// @Produce json
// @Param q query string true "Query"
// @Param country query string false "ISO country code scope"
// @Success 200 {object} types.SearchResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /destinations/search [get]
// @Security BearerAuth
func (h *DestinationHandler) SearchHandler(c *gin.Context) {
	resp, err := h.search.Search(c.Request.Context(), c.Query("q"), strings.ToLower(c.Query("country")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// searchClientMessage is one command from the live search box.
type searchClientMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Index   int    `json:"index,omitempty"`
	Key     string `json:"key,omitempty"`
	PlaceID string `json:"placeId,omitempty"`
}

type searchErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (h *DestinationHandler) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{CompressionMode: websocket.CompressionContextTakeover}
	if h.isDevelopment {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = h.allowedOrigins
	}
	return opts
}

// LiveSearchHandler godoc
// @Summary Live destination search
// @Description Upgrades to a WebSocket. Clients send input/select/key/remove/clearScope commands and receive sequence-tagged session events.
// @Tags destinations
// @Param mode query string false "single or multi" default(single)
// @Param token query string true "Access token"
// @Router /destinations/ws [get]
func (h *DestinationHandler) LiveSearchHandler(c *gin.Context) {
	log := logger.GetLogger().Named("destination_ws")
	userID := getUserIDFromContext(c)

	cfg := h.sessionCfg
	switch destination.Mode(c.DefaultQuery("mode", string(destination.ModeSingle))) {
	case destination.ModeMulti:
		cfg.Mode = destination.ModeMulti
	case destination.ModeSingle:
		cfg.Mode = destination.ModeSingle
	default:
		_ = c.Error(apperrors.ValidationFailed("Unknown search mode", c.Query("mode")))
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, h.acceptOptions())
	if err != nil {
		log.Warnw("Failed to accept search WebSocket", "userID", userID, "error", err)
		return
	}
	conn.SetReadLimit(wsReadLimit)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.metrics.SearchSessionOpened()
	defer h.metrics.SearchSessionClosed()

	events := make(chan destination.Event, searchEventBuffer)
	sess := destination.NewSession(ctx, h.live, cfg, func(e destination.Event) {
		select {
		case events <- e:
		default:
			log.Warnw("Dropping search event, client is slow", "userID", userID, "type", e.Type, "seq", e.Seq)
		}
	})
	defer sess.Close()

	errCh := make(chan error, 2)
	go func() { errCh <- h.readLoop(ctx, conn, sess) }()
	go func() { errCh <- h.writeLoop(ctx, conn, events) }()

	err = <-errCh
	switch {
	case err == nil:
		_ = conn.Close(websocket.StatusNormalClosure, "search finished")
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway:
	default:
		log.Debugw("Search WebSocket ended", "userID", userID, "error", err)
		_ = conn.Close(websocket.StatusInternalError, "")
	}
}

func (h *DestinationHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *destination.Session) error {
	for {
		var msg searchClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}
		if err := applySearchMessage(sess, msg); err != nil {
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			werr := wsjson.Write(writeCtx, conn, searchErrorMessage{Type: "error", Error: err.Error()})
			cancel()
			if werr != nil {
				return werr
			}
		}
	}
}

// writeLoop forwards session events and returns nil after the closed event.
func (h *DestinationHandler) writeLoop(ctx context.Context, conn *websocket.Conn, events <-chan destination.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-events:
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(writeCtx, conn, e)
			cancel()
			if err != nil {
				return err
			}
			if e.Type == destination.EventClosed {
				return nil
			}
		}
	}
}

var errUnknownCommand = errors.New("unknown command")

func applySearchMessage(sess *destination.Session, msg searchClientMessage) error {
	switch msg.Type {
	case "input":
		sess.Input(msg.Text)
	case "select":
		return sess.Select(msg.Index)
	case "key":
		return sess.Key(destination.Key(msg.Key))
	case "remove":
		sess.Remove(msg.PlaceID)
	case "clearScope":
		sess.ClearScope()
	case "close":
		sess.Close()
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, msg.Type)
	}
	return nil
}
