// Package web is HTTP and websocket bridge for external screen renderer.
// Renderer receives View stream and sends touch/scan/login input back.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/vendlasvegas/SelfCheck/internal/types"
	"github.com/vendlasvegas/SelfCheck/log2"
)

const EventSource = "web"

// Poster is the controller side of the bridge.
type Poster interface {
	Post(types.Event) bool
	View() types.View
}

type Server struct {
	config Config
	log    *log2.Log
	poster Poster
	hub    *Hub
	up     websocket.Upgrader
	http   *http.Server
}

func NewServer(config Config, poster Poster, hub *Hub, log *log2.Log) *Server {
	self := &Server{
		config: config,
		log:    log,
		poster: poster,
		hub:    hub,
	}
	self.up = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return self.config.originAllowed(r.Header.Get("Origin"))
		},
	}
	return self
}

func (self *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(self.logRequest)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: self.config.origins(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, self.poster.View())
	})
	r.Get("/ws", self.serveWS)

	r.Post("/input/touch", self.handleTouch)
	r.Post("/input/scan", self.handleScan)
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", self.handleLogin)
		r.Post("/cancel", func(w http.ResponseWriter, r *http.Request) {
			self.post(w, types.Event{Kind: types.EventAdminCancel})
		})
	})
	return r
}

// Run serves until ctx is done.
func (self *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", self.config.listen())
	if err != nil {
		return errors.Annotatef(err, "web listen=%s", self.config.listen())
	}
	return self.Serve(ctx, ln)
}

func (self *Server) Serve(ctx context.Context, ln net.Listener) error {
	self.http = &http.Server{
		Handler:           self.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errch := make(chan error, 1)
	go func() { errch <- self.http.Serve(ln) }()
	self.log.Infof("web listen=%s", ln.Addr())

	select {
	case err := <-errch:
		return errors.Annotate(err, "web serve")
	case <-ctx.Done():
	}
	self.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := self.http.Shutdown(shutdownCtx); err != nil {
		return errors.Annotate(err, "web shutdown")
	}
	return nil
}

func (self *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := self.up.Upgrade(w, r, nil)
	if err != nil {
		self.log.Errorf("web upgrade err=%v", err)
		return
	}
	c := self.hub.register(conn)
	go c.writePump()
	go c.readPump()
}

type touchRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type scanRequest struct {
	Code string `json:"code"`
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (self *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	var req touchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.X == nil || req.Y == nil || *req.X < 0 || *req.Y < 0 {
		writeError(w, http.StatusBadRequest, "x and y required")
		return
	}
	self.post(w, types.Event{Kind: types.EventTouch, X: *req.X, Y: *req.Y})
}

func (self *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	self.post(w, types.Event{Kind: types.EventScan, Code: req.Code})
}

func (self *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	self.post(w, types.Event{Kind: types.EventAdminLogin, User: req.User, Password: req.Password})
}

// post queues event like hardware input; outcome shows up in View stream.
func (self *Server) post(w http.ResponseWriter, e types.Event) {
	e.Source = EventSource
	if !self.poster.Post(e) {
		writeError(w, http.StatusServiceUnavailable, "stopping")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (self *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		self.log.Debugf("web %s %s status=%d duration=%v", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 4096)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
