package journal

import "time"

// Side 表示成交方向。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite 返回反向。
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// RawRow 是表格区中的一行，列名 → 原始字符串。仅在解析期间存在。
type RawRow map[string]string

// Fill 是撮合器消费的规范化成交记录。
// Quantity 为实际成交数量（非委托数量），规范化阶段保证 Quantity>0、Price>0。
type Fill struct {
	Symbol      string    `json:"symbol"`
	Side        Side      `json:"side"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	Timestamp   time.Time `json:"timestamp"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
}

// TradeMatch 是一对反向成交（或其部分数量）配对的结果。
// Entry/Exit 的 Quantity 均等于本次配对数量；Entry.Symbol == Exit.Symbol，
// 且 Entry.Side != Exit.Side。
type TradeMatch struct {
	Entry           Fill    `json:"entry"`
	Exit            Fill    `json:"exit"`
	ProfitLoss      float64 `json:"profit_loss"`
	DurationMinutes int64   `json:"duration_minutes"`
}

// Lot 是一笔成交中尚未被配对的剩余数量（命名的 unmatched 桶，供诊断用）。
type Lot struct {
	Fill      Fill  `json:"fill"`
	Remaining int64 `json:"remaining"`
}

// RejectReason 标记一行被丢弃的原因。
type RejectReason string

const (
	RejectMissingFields RejectReason = "missing_fields"
	RejectNotFilled     RejectReason = "not_filled"
	RejectUnknownSide   RejectReason = "unknown_side"
	RejectBadQuantity   RejectReason = "bad_quantity"
	RejectBadPrice      RejectReason = "bad_price"
	RejectNoTimestamp   RejectReason = "no_timestamp"
)

// Rejection 记录一条被丢弃的行，行级丢弃从不中断后续处理。
type Rejection struct {
	OrderNumber string       `json:"order_number,omitempty"`
	Status      string       `json:"status,omitempty"`
	Reason      RejectReason `json:"reason"`
}

// Trade 是最终落库的回合交易记录。
type Trade struct {
	UserID          string    `json:"user_id"`
	Symbol          string    `json:"symbol"`
	Side            string    `json:"side"` // long / short
	Quantity        int64     `json:"quantity"`
	EntryPrice      float64   `json:"entry_price"`
	ExitPrice       float64   `json:"exit_price"`
	EntryTime       string    `json:"entry_time"` // HH:MM:SS
	ExitTime        string    `json:"exit_time"`
	TradeDate       time.Time `json:"trade_date"`
	ProfitLoss      float64   `json:"profit_loss"`
	Commission      float64   `json:"commission"`
	DurationMinutes int64     `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	CSVFilename     string    `json:"csv_filename"`
}

// Result 是处理单个文件的完整产出。Fills 是进入撮合的规范化成交笔数。
type Result struct {
	Trades     []Trade     `json:"trades"`
	Unmatched  []Lot       `json:"unmatched"`
	Rejections []Rejection `json:"rejections"`
	Fills      int         `json:"fills"`
}
