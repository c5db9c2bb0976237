package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tradenote/internal/store"
	"tradenote/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteStore 用 Gorm + SQLite 持久化回合交易。
type SqliteStore struct {
	db *gorm.DB
}

var _ store.TradeStore = (*SqliteStore)(nil)

func NewSqliteStore(path string) (*SqliteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return newSqliteStore(db)
}

// NewSqliteStoreFromDB 复用已有连接（测试用）。
func NewSqliteStoreFromDB(db *gorm.DB) (*SqliteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db 不能为空")
	}
	return newSqliteStore(db)
}

func newSqliteStore(db *gorm.DB) (*SqliteStore, error) {
	if err := db.AutoMigrate(&model.TradeModel{}); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		// SQLite + WAL: allow a little read parallelism for the HTTP side
		// while keeping lock contention low.
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SqliteStore) InsertTrades(ctx context.Context, trades []model.TradeModel) error {
	if len(trades) == 0 {
		return nil
	}
	now := time.Now().Unix()
	for i := range trades {
		if trades[i].CreatedAtUnix == 0 {
			trades[i].CreatedAtUnix = now
		}
	}
	return s.db.WithContext(ctx).CreateInBatches(trades, 200).Error
}

func (s *SqliteStore) ListTrades(ctx context.Context, filter store.TradeFilter) ([]model.TradeModel, error) {
	q := s.filtered(ctx, filter).Order("trade_date DESC, entry_time DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var out []model.TradeModel
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SqliteStore) CountTrades(ctx context.Context, filter store.TradeFilter) (int64, error) {
	var count int64
	err := s.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (s *SqliteStore) UpdateStrategy(ctx context.Context, userID, tradeID, strategy string) error {
	res := s.db.WithContext(ctx).Model(&model.TradeModel{}).
		Where("id = ? AND user_id = ?", tradeID, userID).
		Update("strategy", strategy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrTradeNotFound
	}
	return nil
}

func (s *SqliteStore) DeleteByFilename(ctx context.Context, userID, filename string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND csv_filename = ?", userID, filename).
		Delete(&model.TradeModel{})
	return res.RowsAffected, res.Error
}

func (s *SqliteStore) filtered(ctx context.Context, filter store.TradeFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.TradeModel{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.Strategy != "" {
		q = q.Where("strategy = ?", filter.Strategy)
	}
	if filter.Filename != "" {
		q = q.Where("csv_filename = ?", filter.Filename)
	}
	return q
}
