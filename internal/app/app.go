package app

import (
	"context"
	"fmt"

	tncfg "tradenote/internal/config"
	"tradenote/internal/importer"
	"tradenote/internal/logger"
	"tradenote/internal/store/history"
	"tradenote/internal/store/sqlite"
	journalhttp "tradenote/internal/transport/http/journal"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：加载配置 → 初始化存储与导入服务 → 启动 HTTP。
type App struct {
	cfg     *tncfg.Config
	trades  *sqlite.SqliteStore
	history *history.Store
	httpSrv *journalhttp.Server
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *tncfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	trades, err := sqlite.NewSqliteStore(cfg.Storage.TradeDBPath)
	if err != nil {
		return nil, fmt.Errorf("初始化交易库失败: %w", err)
	}
	hist, err := history.NewStore(cfg.Storage.HistoryDBPath)
	if err != nil {
		_ = trades.Close()
		return nil, fmt.Errorf("初始化导入流水库失败: %w", err)
	}
	svc, err := importer.NewService(importer.Config{
		Trades:        trades,
		History:       hist,
		Format:        cfg.Import.Format,
		MaxConcurrent: cfg.Import.MaxFilesPerRequest,
	})
	if err != nil {
		_ = trades.Close()
		_ = hist.Close()
		return nil, err
	}
	srv, err := journalhttp.NewServer(journalhttp.ServerConfig{
		Addr:           cfg.App.HTTPAddr,
		Importer:       svc,
		Trades:         trades,
		History:        hist,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
		MaxFiles:       cfg.Import.MaxFilesPerRequest,
	})
	if err != nil {
		_ = trades.Close()
		_ = hist.Close()
		return nil, err
	}
	return &App{cfg: cfg, trades: trades, history: hist, httpSrv: srv}, nil
}

// Run 启动 HTTP 服务直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()

	logger.Infof("tradenote 启动：env=%s addr=%s trades=%s",
		a.cfg.App.Env, a.httpSrv.Addr(), a.cfg.Storage.TradeDBPath)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.httpSrv.Start(ctx); err != nil {
			return fmt.Errorf("journal http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close 释放存储连接。
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.trades != nil {
		_ = a.trades.Close()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
}
