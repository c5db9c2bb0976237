package journalhttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tradenote/internal/importer"
	"tradenote/internal/logger"
	"tradenote/internal/store"
	"tradenote/internal/store/history"

	"github.com/gin-gonic/gin"
)

// Server 提供 /api/journal HTTP 服务（导入 + 查询 + 分析）。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述 journal HTTP 服务依赖。
type ServerConfig struct {
	Addr           string
	Importer       *importer.Service
	Trades         store.TradeStore
	History        *history.Store
	MaxUploadBytes int64
	MaxFiles       int
}

// NewServer 构建 journal HTTP server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Importer == nil || cfg.Trades == nil {
		return nil, errors.New("journal http server requires importer and trade store")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9980"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 8 << 20
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 10
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	journalRouter := NewRouter(cfg.Importer, cfg.Trades, cfg.History, cfg.MaxUploadBytes, cfg.MaxFiles)
	journalRouter.Register(router.Group("/api/journal"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler 暴露底层 handler（httptest 用）。
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// requestLogger 记录接口调用，便于追踪导入与查询。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}
