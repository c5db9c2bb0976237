package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record 是一次导入的流水：谁在什么时候导入了哪个文件，产出了多少。
type Record struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Filename   string `json:"filename"`
	Fills      int    `json:"fills"`
	Trades     int    `json:"trades"`
	Unmatched  int    `json:"unmatched"`
	Rejections int    `json:"rejections"`
	Message    string `json:"message,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// Store 管理 import_records 表（导入审计流水）。
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history store path 不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS import_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			fills INTEGER NOT NULL DEFAULT 0,
			trades INTEGER NOT NULL DEFAULT 0,
			unmatched INTEGER NOT NULL DEFAULT 0,
			rejections INTEGER NOT NULL DEFAULT 0,
			message TEXT,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_import_records_user ON import_records(user_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert 写入一条导入流水；CreatedAt 为零时取当前时间。
func (s *Store) Insert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("history store 已关闭")
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_records
		(id, user_id, filename, fills, trades, unmatched, rejections, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Filename, rec.Fills, rec.Trades,
		rec.Unmatched, rec.Rejections, rec.Message, rec.CreatedAt)
	return err
}

// ListByUser 按时间倒序返回某用户最近的导入流水。
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("history store 已关闭")
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, fills, trades, unmatched, rejections, COALESCE(message, ''), created_at
		FROM import_records
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Filename, &rec.Fills, &rec.Trades,
			&rec.Unmatched, &rec.Rejections, &rec.Message, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
