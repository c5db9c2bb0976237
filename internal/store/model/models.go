package model

import (
	"time"

	"gorm.io/datatypes"
)

// TradeModel maps to the 'trades' table. One row per reconstructed
// round-trip; rows are immutable after insert except for the strategy
// tag, which the dashboard may reassign.
type TradeModel struct {
	ID              string         `gorm:"column:id;primaryKey" json:"id"`
	UserID          string         `gorm:"column:user_id;index:idx_trades_user" json:"user_id"`
	Symbol          string         `gorm:"column:symbol;index:idx_trades_symbol" json:"symbol"`
	Side            string         `gorm:"column:side" json:"side"` // long / short
	Quantity        int64          `gorm:"column:quantity" json:"quantity"`
	EntryPrice      float64        `gorm:"column:entry_price" json:"entry_price"`
	ExitPrice       float64        `gorm:"column:exit_price" json:"exit_price"`
	EntryTime       string         `gorm:"column:entry_time" json:"entry_time"` // HH:MM:SS
	ExitTime        string         `gorm:"column:exit_time" json:"exit_time"`
	TradeDate       time.Time      `gorm:"column:trade_date;index:idx_trades_date" json:"trade_date"`
	ProfitLoss      float64        `gorm:"column:profit_loss" json:"profit_loss"`
	Commission      float64        `gorm:"column:commission" json:"commission"`
	DurationMinutes int64          `gorm:"column:duration_minutes" json:"duration_minutes"`
	Strategy        string         `gorm:"column:strategy;index:idx_trades_strategy" json:"strategy"`
	Tags            datatypes.JSON `gorm:"column:tags;type:TEXT" json:"tags,omitempty"`
	Notes           string         `gorm:"column:notes" json:"notes"`
	CSVFilename     string         `gorm:"column:csv_filename;index:idx_trades_file" json:"csv_filename"`
	CreatedAtUnix   int64          `gorm:"column:created_at" json:"created_at"`
}

func (TradeModel) TableName() string { return "trades" }
