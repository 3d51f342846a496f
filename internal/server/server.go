// Package server serves the pill widget to browsers: a small JSON API and
// one websocket session per page, each with its own physics world.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/san-kum/techpills/internal/config"
	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/hero"
	"github.com/san-kum/techpills/internal/layout"
	"github.com/san-kum/techpills/internal/stats"
	"github.com/san-kum/techpills/internal/techstack"
	"github.com/san-kum/techpills/internal/widget"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
	apiRate        = 20
	apiBurst       = 40
	sweepEvery     = time.Minute
	cleanupEvery   = 24 * time.Hour
	statsRetention = 365 * 24 * time.Hour
	topItems       = 10
)

//go:embed web/index.html
var indexHTML []byte

type Server struct {
	cfg      *config.Config
	items    []techstack.Item
	opts     []widget.Option
	pyramid  layout.Pyramid
	log      *slog.Logger
	engine   *gin.Engine
	limiter  *ipLimiter
	upgrader websocket.Upgrader
	stats    *stats.Store
}

// New builds the HTTP handler tree. opts are the widget options every
// session starts from. When cfg.Server.StatsDB is set the interaction log is
// opened there; call Close to release it.
func New(cfg *config.Config, items []techstack.Item, opts []widget.Option, log *slog.Logger) (*Server, error) {
	if err := techstack.Validate(items); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	p, err := layout.NewPyramid(cfg.Rows, cfg.Pill.Size(), cfg.Gap)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		items:   items,
		opts:    opts,
		pyramid: p,
		log:     log.With("component", "server"),
		limiter: newIPLimiter(apiRate, apiBurst),
	}
	origins := cfg.Server.AllowedOrigins
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return originAllowed(origins, r) },
	}
	if path := cfg.Server.StatsDB; path != "" {
		if s.stats, err = stats.Open(path, cfg.Server.StatsSalt); err != nil {
			return nil, err
		}
	}
	s.routes()
	return s, nil
}

func (s *Server) Close() error {
	if s.stats == nil {
		return nil
	}
	return s.stats.Close()
}

func (s *Server) routes() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/healthz", s.health)
	r.GET("/ws", s.serveSession)

	api := r.Group("/api", s.limiter.middleware())
	api.GET("/items", s.listItems)
	api.GET("/legend", s.legend)
	api.GET("/layout", s.layout)
	api.GET("/hero", s.hero)
	api.GET("/stats", s.summary)

	s.engine = r
}

// Handler is the full handler tree wrapped in CORS.
func (s *Server) Handler() http.Handler {
	return newCORS(s.cfg.Server.AllowedOrigins, s.log).Handler(s.engine)
}

// ListenAndServe blocks until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sweep := time.NewTicker(sweepEvery)
		defer sweep.Stop()
		cleanup := time.NewTicker(cleanupEvery)
		defer cleanup.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-sweep.C:
				s.limiter.sweep(now)
			case <-cleanup.C:
				s.cleanupStats(ctx)
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr, "items", len(s.items))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, s.items)
}

func (s *Server) legend(c *gin.Context) {
	c.JSON(http.StatusOK, techstack.Legend(s.items))
}

func (s *Server) hero(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"commands":       hero.DefaultCommands,
		"char_delay_ms":  hero.CharDelay.Milliseconds(),
		"output_wait_ms": hero.OutputWait.Milliseconds(),
		"hold_ms":        hero.Hold.Milliseconds(),
	})
}

func (s *Server) summary(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stats disabled"})
		return
	}
	sum, err := s.stats.Summarize(c.Request.Context(), topItems)
	if err != nil {
		s.log.Error("stats summary failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) cleanupStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	n, err := s.stats.Cleanup(ctx, statsRetention)
	if err != nil {
		s.log.Error("stats cleanup failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("stats cleanup", "sessions_removed", n)
	}
}

// SeedPosition is one item's starting top-left corner.
type SeedPosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (s *Server) layout(c *gin.Context) {
	width, err := floatParam(c, "width", s.cfg.Container.Width)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	seeds := s.pyramid.Seed(width, len(s.items))
	out := make([]SeedPosition, len(seeds))
	for i, p := range seeds {
		out[i] = SeedPosition{ID: s.items[i].Name, X: p.X, Y: p.Y}
	}
	c.JSON(http.StatusOK, gin.H{"width": width, "height": s.pyramid.Height(len(s.items)), "positions": out})
}

func floatParam(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, raw)
	}
	return v, nil
}

func (s *Server) serveSession(c *gin.Context) {
	width, err := floatParam(c, "width", s.cfg.Container.Width)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	height, err := floatParam(c, "height", s.cfg.Container.Height)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := s.log.With("remote", c.ClientIP())
	moves := rate.NewLimiter(rate.Limit(s.cfg.Server.MoveRate), s.cfg.Server.MoveBurst)
	sess, err := newSession(conn, s.items, s.opts, moves, log)
	if err != nil {
		log.Error("session setup failed", "error", err)
		return
	}
	if s.stats != nil {
		s.track(c, sess, width, height)
		defer s.untrack(sess)
	}

	log.Info("session started", "width", width, "height", height)
	if err := sess.run(c.Request.Context(), dynamo.Size{Width: width, Height: height}, s.cfg.Interval()); err != nil {
		log.Warn("session ended", "error", err)
		return
	}
	log.Info("session ended")
}

// track logs the session and every pill its visitor grabs. Failures only
// cost analytics, so they are logged and the session carries on.
func (s *Server) track(c *gin.Context, sess *session, width, height float64) {
	ctx := context.WithoutCancel(c.Request.Context())
	id, err := s.stats.StartSession(ctx, c.ClientIP(), c.Request.UserAgent(), width, height)
	if err != nil {
		sess.log.Warn("stats unavailable", "error", err)
		return
	}
	sess.statsID = id
	sess.onGrab = func(item string) {
		if err := s.stats.RecordDrag(ctx, id, item); err != nil {
			sess.log.Warn("record drag failed", "error", err)
		}
	}
}

func (s *Server) untrack(sess *session) {
	if sess.statsID == 0 {
		return
	}
	if err := s.stats.EndSession(context.Background(), sess.statsID); err != nil {
		sess.log.Warn("end session failed", "error", err)
	}
}
