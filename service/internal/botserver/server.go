// Package botserver hosts a move-selecting bot behind a WebSocket so that a
// remote game engine can ask it for decisions and report finished games.
package botserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/schnapsen-lab/mlbot/engine"
	"github.com/schnapsen-lab/mlbot/engine/agent"
	"github.com/schnapsen-lab/mlbot/service/internal/ledger"
	"github.com/schnapsen-lab/mlbot/service/internal/stats"
)

const (
	readLimit    = 1 << 20
	writeTimeout = 10 * time.Second
)

// Decider selects a move; *agent.Bot implements it.
type Decider interface {
	Value(s engine.State) (agent.Decision, error)
}

// Options configures a Server.
type Options struct {
	BotName   string
	JWTSecret string // empty disables authentication
	Ledger    ledger.Ledger
	Logger    logrus.FieldLogger
}

// Server serves /ws and /healthz.
type Server struct {
	bot    Decider
	name   string
	secret []byte
	ledger ledger.Ledger
	log    logrus.FieldLogger
}

// New returns a server for bot. A nil ledger records in memory.
func New(bot Decider, opts Options) (*Server, error) {
	if bot == nil {
		return nil, fmt.Errorf("botserver: nil bot")
	}
	if opts.BotName == "" {
		return nil, fmt.Errorf("botserver: empty bot name")
	}
	s := &Server{
		bot:    bot,
		name:   opts.BotName,
		ledger: opts.Ledger,
		log:    opts.Logger,
	}
	if opts.JWTSecret != "" {
		s.secret = []byte(opts.JWTSecret)
	}
	if s.ledger == nil {
		s.ledger = ledger.NewMemory()
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
	mux.HandleFunc("/ws", s.ServeWS)
	return mux
}

// ServeWS authenticates and upgrades the request, then answers frames until
// the client goes away.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	connID := uuid.New()
	log := s.log.WithFields(logrus.Fields{"conn": connID, "remote": r.RemoteAddr})

	if s.secret != nil {
		sub, err := authenticate(r, s.secret)
		if err != nil {
			log.WithError(err).Warn("rejected connection")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log = log.WithField("subject", sub)
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer c.CloseNow()
	c.SetReadLimit(readLimit)

	log.Info("engine connected")
	err = s.serveConn(r.Context(), c, log)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("engine disconnected")
		c.Close(websocket.StatusNormalClosure, "")
	default:
		if errors.Is(err, context.Canceled) {
			log.Info("engine disconnected")
			return
		}
		log.WithError(err).Warn("connection closed")
		c.Close(websocket.StatusInternalError, "")
	}
}

func (s *Server) serveConn(ctx context.Context, c *websocket.Conn, log logrus.FieldLogger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		var reply any
		if typ != websocket.MessageText {
			reply = ErrorReply{Type: TypeError, Error: "expected a text frame"}
		} else {
			reply = s.handle(ctx, data, log)
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err = wsjson.Write(wctx, c, reply)
		cancel()
		if err != nil {
			return err
		}
	}
}

// handle decodes one frame and returns the reply to send.
func (s *Server) handle(ctx context.Context, data []byte, log logrus.FieldLogger) any {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		log.WithError(err).Debug("malformed frame")
		return ErrorReply{Type: TypeError, Error: "malformed message: " + err.Error()}
	}
	log = log.WithFields(logrus.Fields{"type": req.Type, "id": req.ID})

	reply, err := s.dispatch(ctx, &req, log)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return ErrorReply{Type: TypeError, ID: req.ID, Error: err.Error()}
	}
	return reply
}

func (s *Server) dispatch(ctx context.Context, req *Request, log logrus.FieldLogger) (any, error) {
	switch req.Type {
	case TypeDecide:
		return s.decide(req, log)
	case TypeResult:
		return s.result(ctx, req)
	case TypeTally:
		return s.tally(ctx, req)
	}
	return nil, fmt.Errorf("unknown message type %q", req.Type)
}

func (s *Server) decide(req *Request, log logrus.FieldLogger) (any, error) {
	if req.State == nil {
		return nil, errors.New("decide: missing state")
	}
	if err := req.State.Validate(); err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}
	start := time.Now()
	d, err := s.bot.Value(req.State)
	if err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}
	log.WithFields(logrus.Fields{
		"decision": d.ID,
		"move":     d.Move.String(),
		"value":    d.Value,
		"elapsed":  time.Since(start),
	}).Info("decided")
	return MoveReply{
		Type:       TypeMove,
		ID:         req.ID,
		Decision:   d.ID,
		Move:       d.Move,
		Value:      d.Value,
		Candidates: d.Candidates,
	}, nil
}

func (s *Server) result(ctx context.Context, req *Request) (any, error) {
	if req.Won == nil {
		return nil, errors.New("result: missing won")
	}
	o := ledger.Outcome{
		ID:         uuid.New(),
		Bot:        s.name,
		Opponent:   req.Opponent,
		Won:        *req.Won,
		GamePoints: req.GamePoints,
	}
	if err := s.ledger.Record(ctx, o); err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	return AckReply{Type: TypeAck, ID: req.ID, Outcome: o.ID}, nil
}

func (s *Server) tally(ctx context.Context, req *Request) (any, error) {
	t, err := s.ledger.Tally(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("tally: %w", err)
	}
	p, err := stats.BinomialTail(t.Won, t.Games)
	if err != nil {
		return nil, fmt.Errorf("tally: %w", err)
	}
	return TallyReply{Type: TypeTally, ID: req.ID, Bot: t.Bot, Games: t.Games, Won: t.Won, PValue: p}, nil
}
