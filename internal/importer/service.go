// Package importer 负责把上传的券商导出文件变成已落库的回合交易：
// 读入文件 → journal 流水线 → 批量写库 → 记录导入流水。
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"tradenote/internal/journal"
	"tradenote/internal/logger"
	"tradenote/internal/store"
	"tradenote/internal/store/history"
	"tradenote/internal/store/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service 的每次导入调用相互独立、不共享可变状态，
// 同一用户或不同用户的多个文件可并发处理。
type Service struct {
	trades  store.TradeStore
	history *history.Store
	format  journal.Format

	maxConcurrent int
}

type Config struct {
	Trades        store.TradeStore
	History       *history.Store
	Format        journal.Format
	MaxConcurrent int
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Trades == nil {
		return nil, fmt.Errorf("trade store 不能为空")
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Service{
		trades:        cfg.Trades,
		history:       cfg.History,
		format:        cfg.Format,
		maxConcurrent: maxConcurrent,
	}, nil
}

// Outcome 是一次导入的回执。
type Outcome struct {
	Record     history.Record      `json:"record"`
	Unmatched  []journal.Lot       `json:"unmatched,omitempty"`
	Rejections []journal.Rejection `json:"rejections,omitempty"`
}

// Import 处理一个已读入内存的上传。读取 r 失败是唯一的硬失败；
// 之后的解析/配对/转换是纯函数，最坏情况是零笔交易。
func (s *Service) Import(ctx context.Context, userID, filename string, r io.Reader) (Outcome, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading upload failed (%s): %w", filename, err)
	}
	result := journal.Process(string(data), userID, filename, s.format)

	models := make([]model.TradeModel, 0, len(result.Trades))
	for _, t := range result.Trades {
		models = append(models, toModel(t))
	}
	if err := s.trades.InsertTrades(ctx, models); err != nil {
		return Outcome{}, fmt.Errorf("persisting trades failed (%s): %w", filename, err)
	}

	rec := history.Record{
		ID:         uuid.NewString(),
		UserID:     userID,
		Filename:   filename,
		Fills:      result.Fills,
		Trades:     len(result.Trades),
		Unmatched:  len(result.Unmatched),
		Rejections: len(result.Rejections),
		CreatedAt:  time.Now().Unix(),
	}
	if s.history != nil {
		if err := s.history.Insert(ctx, rec); err != nil {
			// 流水失败不回滚交易，只记日志。
			logger.Warnf("写入导入流水失败 (%s): %v", filename, err)
		}
	}
	logger.Infof("导入完成 user=%s file=%s trades=%d unmatched=%d rejected=%d",
		userID, filename, rec.Trades, rec.Unmatched, rec.Rejections)
	return Outcome{
		Record:     rec,
		Unmatched:  result.Unmatched,
		Rejections: result.Rejections,
	}, nil
}

// ImportPath 从本地路径导入（命令行/测试入口）。文件读取是唯一一段
// 有作用域的 I/O：打开、读完、关闭，其余流程全部在内存数据上进行。
func (s *Service) ImportPath(ctx context.Context, userID, path string) (Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("opening export file failed: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, userID, f.Name(), f)
}

// Upload 是多文件导入的一个输入。
type Upload struct {
	Filename string
	Reader   io.Reader
}

// ImportBatch 并发导入多个文件，失败的文件不影响其他文件，
// 每个文件各得一个结果或错误（下标与入参对应）。
func (s *Service) ImportBatch(ctx context.Context, userID string, uploads []Upload) ([]Outcome, []error) {
	outcomes := make([]Outcome, len(uploads))
	errs := make([]error, len(uploads))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxConcurrent)
	for i, up := range uploads {
		group.Go(func() error {
			outcome, err := s.Import(ctx, userID, up.Filename, up.Reader)
			mu.Lock()
			outcomes[i] = outcome
			errs[i] = err
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return outcomes, errs
}

func toModel(t journal.Trade) model.TradeModel {
	return model.TradeModel{
		ID:              uuid.NewString(),
		UserID:          t.UserID,
		Symbol:          t.Symbol,
		Side:            t.Side,
		Quantity:        t.Quantity,
		EntryPrice:      t.EntryPrice,
		ExitPrice:       t.ExitPrice,
		EntryTime:       t.EntryTime,
		ExitTime:        t.ExitTime,
		TradeDate:       t.TradeDate,
		ProfitLoss:      t.ProfitLoss,
		Commission:      t.Commission,
		DurationMinutes: t.DurationMinutes,
		Notes:           t.Notes,
		CSVFilename:     t.CSVFilename,
	}
}
