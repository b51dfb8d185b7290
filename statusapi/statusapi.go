// Package statusapi serves a read-only view of the running bot over HTTP.
package statusapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastset-labs/fastset-go-sdk/display"
	"github.com/fastset-labs/fastset-go-sdk/runner"
)

// Source provides the display state.
type Source interface {
	Snapshot() display.Snapshot
}

type Server struct {
	src     Source
	session *runner.Session
	log     *zap.Logger
	engine  *gin.Engine
}

type paramsResponse struct {
	SendsPerAccount int `json:"sendsPerAccount"`
	DelaySeconds    int `json:"delaySeconds"`
}

// New builds the routes. session may be nil, in which case /params answers 404. The gin mode
// is left to the caller.
func New(src Source, session *runner.Session, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{src: src, session: session, log: log.Named("statusapi"), engine: gin.New()}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/status", s.status)
	s.engine.GET("/logs", s.logs)
	s.engine.GET("/params", s.params)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) status(c *gin.Context) {
	snap := s.src.Snapshot()
	snap.Logs = nil
	c.JSON(http.StatusOK, snap)
}

func (s *Server) logs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": s.src.Snapshot().Logs})
}

func (s *Server) params(c *gin.Context) {
	if s.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session"})
		return
	}
	p := s.session.Snapshot()
	c.JSON(http.StatusOK, paramsResponse{SendsPerAccount: p.SendsPerAccount, DelaySeconds: int(p.Delay / time.Second)})
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("status API listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("status API shutdown", zap.Error(err))
			return err
		}
		return nil
	}
}
