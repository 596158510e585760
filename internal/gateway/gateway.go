// Package gateway exposes the room directory and the rooms themselves over
// HTTP: a small JSON API for creating and inspecting rooms, and a websocket
// endpoint per room that carries the game protocol.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mkelleher/sketchparty/internal/config"
	"github.com/mkelleher/sketchparty/internal/directory"
	"github.com/mkelleher/sketchparty/internal/game/prompt"
	"github.com/mkelleher/sketchparty/internal/game/room"
)

const shutdownTimeout = 5 * time.Second

// Gateway serves the HTTP API and the per-room websocket connections, and
// drives the turn timers that advance a room when the guess time runs out.
type Gateway struct {
	cfg      config.Config
	dir      *directory.Directory
	packs    *prompt.Registry
	hub      *hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
	srv      *http.Server

	mu     sync.Mutex
	timers map[string]*room.TurnTimer
}

// New creates a Gateway.
//
// Precondition: dir, packs, and logger must be non-nil; cfg must have passed
// Validate.
func New(cfg config.Config, dir *directory.Directory, packs *prompt.Registry, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		dir:    dir,
		packs:  packs,
		hub:    newHub(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the game page origin; the
			// rooms are joinable by code, not by credential.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		timers: make(map[string]*room.TurnTimer),
	}
}

// Handler returns the HTTP handler serving the room API and websocket
// endpoint. Exposed separately from Start for tests.
func (g *Gateway) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/rooms", g.handleCreateRoom)
	r.GET("/rooms/:code", g.handleRoomSummary)
	r.GET("/rooms/:code/ws", g.handleConnect)

	return r
}

// Start serves HTTP until Stop is called. Implements server.Service.
func (g *Gateway) Start() error {
	g.srv = &http.Server{
		Addr:    g.cfg.Server.Addr(),
		Handler: g.Handler(),
	}
	g.logger.Info("gateway listening", zap.String("addr", g.srv.Addr))
	if err := g.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down gracefully and stops all turn timers.
func (g *Gateway) Stop() {
	g.mu.Lock()
	for code, tt := range g.timers {
		tt.Stop()
		delete(g.timers, code)
	}
	g.mu.Unlock()

	if g.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := g.srv.Shutdown(ctx); err != nil {
		g.logger.Warn("gateway shutdown", zap.Error(err))
	}
}

// CreateRoomRequest is the optional body of POST /rooms. Omitted fields
// fall back to the configured defaults.
type CreateRoomRequest struct {
	PackID          string `json:"packId"`
	GuessSeconds    int    `json:"guessSeconds"`
	Rounds          int    `json:"rounds"`
	AllowSpectators *bool  `json:"allowSpectators"`
	MaxPlayers      *int   `json:"maxPlayers"`
}

// CreateRoomResponse is the body of a successful POST /rooms.
type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// RoomSummary is the body of GET /rooms/:code.
type RoomSummary struct {
	RoomID          string            `json:"roomId"`
	Code            string            `json:"code"`
	State           room.State        `json:"state"`
	Players         []room.PlayerInfo `json:"players"`
	AllowSpectators bool              `json:"allowSpectators"`
	Rounds          int               `json:"rounds"`
	GuessSeconds    int               `json:"guessSeconds"`
}

func (g *Gateway) handleCreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
			return
		}
	}

	settings, err := g.settingsFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rm, err := g.dir.Create(settings)
	if err != nil {
		g.logger.Error("room creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	c.JSON(http.StatusCreated, CreateRoomResponse{RoomID: rm.ID(), Code: rm.Code()})
}

// settingsFromRequest merges the request over the configured defaults.
func (g *Gateway) settingsFromRequest(req CreateRoomRequest) (room.Settings, error) {
	pack := g.packs.Default()
	if req.PackID != "" {
		p, ok := g.packs.Get(req.PackID)
		if !ok {
			return room.Settings{}, errors.New("unknown prompt pack")
		}
		pack = p
	}

	guessSeconds := g.cfg.Game.GuessSeconds
	if req.GuessSeconds != 0 {
		guessSeconds = req.GuessSeconds
	}
	rounds := g.cfg.Game.Rounds
	if req.Rounds != 0 {
		rounds = req.Rounds
	}
	allowSpectators := g.cfg.Game.AllowSpectators
	if req.AllowSpectators != nil {
		allowSpectators = *req.AllowSpectators
	}
	maxPlayers := g.cfg.Game.MaxPlayers
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}

	return room.NewSettings(pack, guessSeconds, rounds, allowSpectators, maxPlayers)
}

func (g *Gateway) handleRoomSummary(c *gin.Context) {
	rm, ok := g.dir.Lookup(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	s := rm.Settings()
	c.JSON(http.StatusOK, RoomSummary{
		RoomID:          rm.ID(),
		Code:            rm.Code(),
		State:           rm.State(),
		Players:         rm.Players(),
		AllowSpectators: s.AllowSpectators,
		Rounds:          s.Rounds,
		GuessSeconds:    s.GuessSeconds,
	})
}

// handleConnect upgrades the request to a websocket and joins the player to
// the room. Join refusals are delivered over the socket so browser clients
// can show the reason.
func (g *Gateway) handleConnect(c *gin.Context) {
	rm, ok := g.dir.Lookup(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	nickname := strings.TrimSpace(c.Query("nickname"))
	if nickname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nickname is required"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	join := rm.Join(nickname)
	if join.Status != room.JoinOK {
		_ = conn.SetWriteDeadline(time.Now().Add(g.cfg.Server.WriteTimeout))
		_ = conn.WriteMessage(websocket.TextMessage, errorMessage(string(join.Status)).encode())
		_ = conn.Close()
		return
	}

	cl := newClient(join.Player.ID, join.Player.Nickname, rm.Code(), rm, conn, g.logger)
	g.hub.register(cl)

	g.logger.Info("player joined",
		zap.String("room_code", rm.Code()),
		zap.String("player_id", cl.playerID),
		zap.String("nickname", cl.nickname),
		zap.String("role", string(join.Player.Role)),
	)

	g.hub.sendTo(cl, welcomeMessage(rm.Code(), rm.State(), join.Player, join.Roster).encode())
	g.hub.broadcast(rm.Code(), rosterMessage(join.Roster).encode())
	if turn, ok := rm.CurrentTurn(); ok {
		// A joining spectator needs the in-flight turn to render anything.
		g.hub.sendTo(cl, turnMessage(turn).encode())
	}

	go cl.writePump(g.cfg.Server.WriteTimeout, g.cfg.Server.PingInterval)
	cl.readPump(g.cfg.Server.PongTimeout, g.handleCommand, g.disconnect)
}

func (g *Gateway) handleCommand(cl *client, cmd ClientCommand) {
	switch cmd.Type {
	case CmdStart:
		res := cl.rm.Start(cl.playerID)
		if res.Status != room.StartOK {
			g.hub.sendTo(cl, errorMessage(string(res.Status)).encode())
			return
		}
		g.logger.Info("game started",
			zap.String("room_code", cl.roomCode),
			zap.String("player_id", cl.playerID),
		)
		g.hub.broadcast(cl.roomCode, gameStartedMessage(res.Turn).encode())
		g.scheduleTurn(cl.roomCode, cl.rm, res.Turn.Seq)
	case CmdGuess:
		g.handleGuess(cl, cmd.Text)
	default:
		g.hub.sendTo(cl, errorMessage("unknown_command").encode())
	}
}

func (g *Gateway) handleGuess(cl *client, text string) {
	res := cl.rm.Guess(cl.playerID, text)
	if res.Status != room.GuessOK {
		g.hub.sendTo(cl, errorMessage(string(res.Status)).encode())
		return
	}
	if !res.Correct {
		g.hub.broadcast(cl.roomCode, guessMessage(cl.nickname, text).encode())
		return
	}
	// The prompt stays hidden from the broadcast until the turn ends.
	g.hub.broadcast(cl.roomCode,
		correctGuessMessage(cl.nickname, res.GuesserAward, res.DrawerAward).encode())
	if res.TurnAdvanced {
		g.applyAdvance(cl.roomCode, cl.rm, res.Advance)
	}
}

// applyAdvance broadcasts the result of a turn advance and rearms or stops
// the room's timer.
func (g *Gateway) applyAdvance(code string, rm *room.Room, adv room.AdvanceResult) {
	switch adv.Status {
	case room.AdvanceOK:
		g.hub.broadcast(code, turnMessage(adv.Turn).encode())
		g.scheduleTurn(code, rm, adv.Turn.Seq)
	case room.AdvanceGameOver:
		g.logger.Info("game over", zap.String("room_code", code))
		g.hub.broadcast(code, gameOverMessage(adv.Scores).encode())
		g.stopTimer(code)
	}
}

// scheduleTurn arms the room's timer for one guess period. When it fires the
// room advances as if the drawer's time ran out. seq pins the expiry to the
// turn being scheduled: an expiry whose turn already ended (last guesser got
// it, or the drawer left) is a no-op instead of a double advance.
func (g *Gateway) scheduleTurn(code string, rm *room.Room, seq uint64) {
	d := rm.Settings().GuessTime()
	fire := func() { g.turnExpired(code, rm, seq) }

	g.mu.Lock()
	defer g.mu.Unlock()
	if tt, ok := g.timers[code]; ok {
		tt.Reset(d, fire)
		return
	}
	g.timers[code] = room.NewTurnTimer(d, fire)
}

func (g *Gateway) stopTimer(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tt, ok := g.timers[code]; ok {
		tt.Stop()
		delete(g.timers, code)
	}
}

func (g *Gateway) turnExpired(code string, rm *room.Room, seq uint64) {
	adv := rm.AdvanceTurnFrom(seq)
	switch adv.Status {
	case room.AdvanceNotPlaying:
		g.stopTimer(code)
		return
	case room.AdvanceSuperseded:
		// The turn ended before this expiry ran; whatever ended it has
		// already rearmed the timer.
		return
	}
	g.logger.Debug("turn timer expired",
		zap.String("room_code", code),
		zap.Uint64("turn_seq", seq),
	)
	g.applyAdvance(code, rm, adv)
}

// disconnect removes the departing client from the hub and the room, and
// tears the room down once its last connection is gone.
func (g *Gateway) disconnect(cl *client) {
	remaining := g.hub.unregister(cl)
	cl.close()

	res := cl.rm.Leave(cl.playerID)
	if res.Status != room.LeaveOK {
		return
	}
	g.logger.Info("player left",
		zap.String("room_code", cl.roomCode),
		zap.String("player_id", cl.playerID),
		zap.String("nickname", cl.nickname),
	)

	if remaining == 0 {
		g.stopTimer(cl.roomCode)
		g.dir.Remove(cl.roomCode)
		return
	}

	g.hub.broadcast(cl.roomCode, rosterMessage(res.Roster).encode())
	if res.TurnAdvanced {
		g.applyAdvance(cl.roomCode, cl.rm, res.Advance)
	}
}
