// Package server lets remote clients play over a websocket. Every connection
// gets its own session, ticked by one goroutine; the socket reader only
// forwards decoded messages to it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plus3/tetracube/game"
	"github.com/plus3/tetracube/leaderboard"
	"github.com/plus3/tetracube/shape"
)

// Options configures a Server.
type Options struct {
	Settings     game.Settings
	TickInterval time.Duration
	Logger       *log.Logger
}

// Server hands out sessions to websocket clients.
type Server struct {
	opts        Options
	board       leaderboard.Store
	upgrader    websocket.Upgrader
	connections atomic.Int64
	served      atomic.Uint64
}

func New(opts Options, board leaderboard.Store) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second / 60
	}
	if board == nil {
		board = leaderboard.Discard{}
	}

	return &Server{
		opts:  opts,
		board: board,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes /ws to the game and /leaderboard to the current board.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/leaderboard", s.serveLeaderboard)
	return mux
}

// Connections is the number of open sockets.
func (s *Server) Connections() int64 {
	return s.connections.Load()
}

func (s *Server) serveLeaderboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.board.Top(r.Context())
	if err != nil {
		s.opts.Logger.Printf("leaderboard: %v", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(LeaderboardMessage{Records: records}); err != nil {
		s.opts.Logger.Printf("leaderboard: write response: %v", err)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Printf("Failed to upgrade connection: %v", err)
		return
	}

	s.connections.Add(1)
	defer s.connections.Add(-1)

	settings := s.opts.Settings
	settings.Seed += s.served.Add(1)

	s.opts.Logger.Printf("New connection from %s", ws.RemoteAddr())
	s.handleConnection(r.Context(), NewConnection(ws), settings)
}

func (s *Server) handleConnection(ctx context.Context, conn *Connection, settings game.Settings) {
	ctx, cancel := context.WithCancel(ctx)

	h := &clientHandler{
		server:   s,
		conn:     conn,
		player:   "anonymous",
		messages: make(chan ClientMessage, 64),
		done:     make(chan struct{}),
	}

	session, err := game.NewSession(settings, game.WithNotifier(h), game.WithLogger(s.opts.Logger))
	if err != nil {
		cancel()
		s.opts.Logger.Printf("create session: %v", err)
		conn.ws.Close()
		return
	}
	h.session = session

	go conn.WritePump()
	go h.run(ctx)

	conn.ReadPump(h)

	cancel()
	<-h.done
	conn.Close()
	s.opts.Logger.Printf("%s disconnected with score %d", h.player, session.Score())
}

// clientHandler owns one session. Everything but HandleMessage runs on the
// goroutine started by run.
type clientHandler struct {
	server   *Server
	conn     *Connection
	session  *game.Session
	player   string
	messages chan ClientMessage
	done     chan struct{}
	last     time.Time
}

// HandleMessage runs on the reader goroutine and only forwards.
func (h *clientHandler) HandleMessage(conn *Connection, message []byte) {
	msg, err := ParseMessage(message)
	if err != nil {
		h.server.opts.Logger.Printf("Error parsing message: %v", err)
		conn.SendMessage(OutgoingMessage{Type: MessageTypeError, Payload: ErrorMessage{Message: err.Error()}})
		return
	}

	select {
	case h.messages <- msg:
	default:
		// a client flooding input loses the excess; presses collapse per tick anyway
	}
}

func (h *clientHandler) run(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(h.server.opts.TickInterval)
	defer ticker.Stop()

	h.last = time.Now()
	h.sendState()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.messages:
			h.apply(ctx, msg)
		case now := <-ticker.C:
			h.session.Tick(now.Sub(h.last))
			h.last = now
			h.sendState()
		}
	}
}

func (h *clientHandler) apply(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MessageTypeJoin:
		h.player = msg.Player
		h.sendBest(ctx)
	case MessageTypeStart:
		h.session.Start()
	case MessageTypeRestart:
		h.session.Restart()
	case MessageTypeAction:
		h.session.Press(msg.Action)
	case MessageTypeLeaderboard:
		records, err := h.server.board.Top(ctx)
		if err != nil {
			h.sendError(err)
			return
		}
		h.conn.SendMessage(OutgoingMessage{Type: MessageTypeLeaderboard, Payload: LeaderboardMessage{Records: records}})
	}
}

// sendBest tells a joining player their best kept record, if they have one.
func (h *clientHandler) sendBest(ctx context.Context) {
	record, err := h.server.board.Best(ctx, h.player)
	switch {
	case errors.Is(err, leaderboard.ErrNotFound):
		return
	case err != nil:
		h.server.opts.Logger.Printf("leaderboard: best for %s: %v", h.player, err)
		return
	}
	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeBest, Payload: BestMessage{Record: record}})
}

func (h *clientHandler) sendState() {
	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeState, Payload: h.session.Snapshot()})
}

func (h *clientHandler) sendError(err error) {
	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeError, Payload: ErrorMessage{Message: err.Error()}})
}

func (h *clientHandler) ScoreChanged(score int) {
	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeScore, Payload: ScoreMessage{Score: score}})
}

func (h *clientHandler) NextPiece(next shape.Type) {
	h.conn.SendMessage(nextMessage(next))
}

func (h *clientHandler) RowsCleared(rows int) {
	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeRows, Payload: RowsMessage{Rows: rows}})
}

// GameOver submits the score and tells the client where it placed.
func (h *clientHandler) GameOver(score int) {
	ctx := context.Background()
	result := GameOverMessage{Score: score}

	highscore, err := h.server.board.IsHighscore(ctx, score)
	if err != nil {
		h.server.opts.Logger.Printf("leaderboard: %v", err)
	}
	if highscore {
		snap := h.session.Snapshot()
		rank, err := h.server.board.Submit(ctx, leaderboard.Record{
			Player: h.player,
			Score:  score,
			Rows:   snap.Rows,
			Field:  h.session.Settings().Size.String(),
			At:     time.Now(),
		})
		if err != nil {
			h.server.opts.Logger.Printf("leaderboard: %v", err)
		}
		result.Highscore = rank > 0
		result.Rank = rank
	}

	h.conn.SendMessage(OutgoingMessage{Type: MessageTypeGameOver, Payload: result})
}
