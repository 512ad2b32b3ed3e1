// Command chesslangd is a development HTTP/WebSocket server for driving the
// ChessLang engine interactively (SPEC_FULL.md §6, mirroring the teacher's
// webapp.go), not a production network-play service — see spec.md's
// Non-goals.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/walterschell/chesslang"
	"github.com/walterschell/chesslang/engine"
)

const DefaultPort = 8765

var log = slog.Default().With("package", "chesslangd")

// Game wraps one live Engine with the mutex that serializes every
// HTTP/WS-triggered call into it (spec.md §5: "callers serialize";
// SPEC_FULL.md §5: "a per-game sync.Mutex guarding every Engine method
// call", the same role webapp.go's clientsLock plays for its client set).
type Game struct {
	id     string
	mu     sync.Mutex
	engine *engine.Engine
	source string

	subscribers     map[*websocket.Conn]bool
	subscribersLock sync.RWMutex
}

func (g *Game) broadcast(event string, payload any) {
	body, err := json.Marshal(map[string]any{"type": event, "data": payload})
	if err != nil {
		log.Warn("failed to marshal event", "err", err)
		return
	}
	g.subscribersLock.RLock()
	defer g.subscribersLock.RUnlock()
	for conn := range g.subscribers {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			log.Warn("failed to write to websocket client", "err", err)
		}
	}
}

// Application holds every live game, keyed by id, plus the router and
// websocket upgrader.
type Application struct {
	router   *mux.Router
	upgrader websocket.Upgrader

	gamesLock sync.RWMutex
	games     map[string]*Game
	nextID    int
}

func NewApplication() *Application {
	app := &Application{
		router: mux.NewRouter(),
		games:  map[string]*Game{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	app.router.HandleFunc("/api/compile", app.handleCompile).Methods(http.MethodPost)
	app.router.HandleFunc("/api/games", app.handleCreateGame).Methods(http.MethodPost)
	app.router.HandleFunc("/api/games/{id}/moves", app.handleGetLegalMoves).Methods(http.MethodGet)
	app.router.HandleFunc("/api/games/{id}/moves", app.handleMakeMove).Methods(http.MethodPost)
	app.router.HandleFunc("/api/games/{id}/undo", app.handleUndo).Methods(http.MethodPost)
	app.router.HandleFunc("/api/games/{id}/triggers/{triggerId}/execute", app.handleTrigger(true)).Methods(http.MethodPost)
	app.router.HandleFunc("/api/games/{id}/triggers/{triggerId}/skip", app.handleTrigger(false)).Methods(http.MethodPost)
	app.router.HandleFunc("/ws", app.handleWS)
	return app
}

func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

type compileRequest struct {
	Source string `json:"source"`
}

// handleCompile validates source without creating a game: POST
// /api/compile {source} -> compiled game summary or {error, location}.
func (app *Application) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	g, err := chesslang.CompileSource(req.Source, "api")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name": g.Name, "pieces": len(g.Pieces), "rules": g.Rules,
	})
}

// handleCreateGame compiles source and starts a new live game: POST
// /api/games {source} -> new game id + initial GameState.
func (app *Application) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cg, err := chesslang.CompileSource(req.Source, "api")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, err := chesslang.NewEngine(cg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	app.gamesLock.Lock()
	app.nextID++
	id := fmt.Sprintf("g%d", app.nextID)
	game := &Game{id: id, engine: e, source: req.Source, subscribers: map[*websocket.Conn]bool{}}
	app.games[id] = game
	app.gamesLock.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "state": e.GetState()})
}

func (app *Application) gameByID(id string) (*Game, bool) {
	app.gamesLock.RLock()
	defer app.gamesLock.RUnlock()
	g, ok := app.games[id]
	return g, ok
}

// handleGetLegalMoves answers GET /api/games/{id}/moves?square=e2 ->
// legal moves, optionally filtered to one origin square.
func (app *Application) handleGetLegalMoves(w http.ResponseWriter, r *http.Request) {
	game, ok := app.gameByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no such game"))
		return
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	moves := game.engine.GetLegalMoves(game.engine.GetState().Turn)
	square := r.URL.Query().Get("square")
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		if square != "" && m.From.Algebraic() != square {
			continue
		}
		out = append(out, m.Algebraic())
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": out})
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// handleMakeMove answers POST /api/games/{id}/moves {from,to,promotion?}
// -> {success, result}.
func (app *Application) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	game, ok := app.gameByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no such game"))
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	outcome, err := game.engine.MakeMoveAlgebraic(req.From, req.To, req.Promotion)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "reason": err.Error()})
		return
	}
	game.broadcast("move", map[string]any{"from": req.From, "to": req.To})
	if outcome.Result != nil {
		game.broadcast("terminal", outcome.Result)
	}
	writeJSON(w, http.StatusOK, outcome)
}

// handleUndo answers POST /api/games/{id}/undo.
func (app *Application) handleUndo(w http.ResponseWriter, r *http.Request) {
	game, ok := app.gameByID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no such game"))
		return
	}
	game.mu.Lock()
	defer game.mu.Unlock()
	ok = game.engine.UndoMove()
	writeJSON(w, http.StatusOK, map[string]any{"success": ok, "state": game.engine.GetState()})
}

// handleTrigger answers POST /api/games/{id}/triggers/{triggerId}/execute
// and .../skip.
func (app *Application) handleTrigger(execute bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		game, ok := app.gameByID(vars["id"])
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("no such game"))
			return
		}
		var id int
		if _, err := fmt.Sscanf(vars["triggerId"], "%d", &id); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		game.mu.Lock()
		defer game.mu.Unlock()
		var outcome *engine.MakeMoveOutcome
		var err error
		if execute {
			outcome, err = game.engine.ExecuteOptionalTrigger(id)
		} else {
			outcome, err = game.engine.SkipOptionalTrigger(id)
		}
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "reason": err.Error()})
			return
		}
		if outcome.Result != nil {
			game.broadcast("terminal", outcome.Result)
		}
		writeJSON(w, http.StatusOK, outcome)
	}
}

// handleWS answers GET /ws?game={id} -> event stream (move, terminal),
// the same connected-clients pattern webapp.go uses,
// scoped per game instead of process-wide.
func (app *Application) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("game")
	game, ok := app.gameByID(id)
	if !ok {
		http.Error(w, "no such game", http.StatusNotFound)
		return
	}
	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}
	game.subscribersLock.Lock()
	game.subscribers[conn] = true
	game.subscribersLock.Unlock()
	log.Info("websocket client connected", "game", id, "remote", conn.RemoteAddr())

	go func() {
		defer func() {
			game.subscribersLock.Lock()
			delete(game.subscribers, conn)
			game.subscribersLock.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

func main() {
	var port uint
	flag.UintVar(&port, "port", DefaultPort, "Port to listen on")
	flag.Parse()
	if port == 0 || port > 65535 {
		fmt.Println("Invalid port number")
		os.Exit(1)
	}
	app := NewApplication()
	app.router.Use(stdoutLogger)
	log.Info("starting chesslangd", "port", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), app); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
