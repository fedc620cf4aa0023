// Package httpapi exposes the rule engine and the chat collaborator over
// HTTP. Handlers validate request shape and then call the pure core.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/teampulse/internal/chat"
)

type Options struct {
	AllowedOrigins []string
	// LeaderboardLimit caps /leaderboard responses when the request has no
	// limit parameter. 0 means unlimited.
	LeaderboardLimit int
	// Now is the clock used to derive behavior snapshots. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	engine *gin.Engine
	chat   *chat.Service
	logger *zap.Logger
	opts   Options
}

func New(svc *chat.Service, logger *zap.Logger, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	s := &Server{engine: r, chat: svc, logger: logger, opts: opts}
	s.attachRoutes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) attachRoutes() {
	s.engine.GET("/health", s.health)

	s.engine.POST("/alerts", s.alerts)
	s.engine.POST("/leaderboard", s.leaderboard)
	s.engine.POST("/behavior", s.deriveBehavior)

	chatGroup := s.engine.Group("/chat")
	{
		chatGroup.POST("/send", s.sendMessage)
		chatGroup.GET("/messages", s.listMessages)
		chatGroup.GET("/commitments", s.listCommitments)
		chatGroup.GET("/digest", s.digest)
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("HTTP server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		return err
	}
	return <-errCh
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
