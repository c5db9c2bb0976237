// Package analytics 基于已落库的回合交易计算看板指标：胜率、净盈亏、
// 资金曲线、按策略/品种的分层汇总。全部为纯函数，金额用 decimal 累加
// 以避免浮点累积误差。
package analytics

import (
	"sort"

	"tradenote/internal/store/model"

	"github.com/shopspring/decimal"
)

// Summary 是账户级汇总。
type Summary struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Flat         int     `json:"flat"`
	WinRate      float64 `json:"win_rate"` // 0~1，flat 不计入分母
	NetProfit    float64 `json:"net_profit"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"` // 取绝对值
	ProfitFactor float64 `json:"profit_factor"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
}

// EquityPoint 是资金曲线上的一个点：截至该交易日的累计已实现盈亏。
type EquityPoint struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	NetProfit  float64 `json:"net_profit"`
	Cumulative float64 `json:"cumulative"`
	Trades     int     `json:"trades"`
}

// BreakdownRow 是按某一维度（策略或品种）的汇总行。
type BreakdownRow struct {
	Key       string  `json:"key"`
	Trades    int     `json:"trades"`
	Wins      int     `json:"wins"`
	WinRate   float64 `json:"win_rate"`
	NetProfit float64 `json:"net_profit"`
}

// Summarize 计算账户级汇总。
func Summarize(trades []model.TradeModel) Summary {
	var s Summary
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, t := range trades {
		s.Trades++
		pl := decimal.NewFromFloat(t.ProfitLoss)
		switch pl.Sign() {
		case 1:
			s.Wins++
			grossProfit = grossProfit.Add(pl)
		case -1:
			s.Losses++
			grossLoss = grossLoss.Add(pl.Neg())
		default:
			s.Flat++
		}
	}
	s.GrossProfit, _ = grossProfit.Float64()
	s.GrossLoss, _ = grossLoss.Float64()
	s.NetProfit, _ = grossProfit.Sub(grossLoss).Float64()
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.Wins > 0 {
		avg, _ := grossProfit.Div(decimal.NewFromInt(int64(s.Wins))).Float64()
		s.AvgWin = avg
	}
	if s.Losses > 0 {
		avg, _ := grossLoss.Div(decimal.NewFromInt(int64(s.Losses))).Float64()
		s.AvgLoss = avg
	}
	if grossLoss.Sign() > 0 {
		pf, _ := grossProfit.Div(grossLoss).Float64()
		s.ProfitFactor = pf
	}
	return s
}

const dateLayout = "2006-01-02"

// EquityCurve 按交易日聚合盈亏并输出累计曲线，日期升序。
func EquityCurve(trades []model.TradeModel) []EquityPoint {
	daily := make(map[string]*EquityPoint)
	for _, t := range trades {
		date := t.TradeDate.Format(dateLayout)
		p, ok := daily[date]
		if !ok {
			p = &EquityPoint{Date: date}
			daily[date] = p
		}
		p.NetProfit = addFloat(p.NetProfit, t.ProfitLoss)
		p.Trades++
	}
	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]EquityPoint, 0, len(dates))
	cumulative := decimal.Zero
	for _, date := range dates {
		p := *daily[date]
		cumulative = cumulative.Add(decimal.NewFromFloat(p.NetProfit))
		p.Cumulative, _ = cumulative.Float64()
		out = append(out, p)
	}
	return out
}

// ByStrategy 按策略标签汇总；未打标签的归入 "untagged"。
func ByStrategy(trades []model.TradeModel) []BreakdownRow {
	return breakdown(trades, func(t model.TradeModel) string {
		if t.Strategy == "" {
			return "untagged"
		}
		return t.Strategy
	})
}

// BySymbol 按品种汇总。
func BySymbol(trades []model.TradeModel) []BreakdownRow {
	return breakdown(trades, func(t model.TradeModel) string { return t.Symbol })
}

func breakdown(trades []model.TradeModel, key func(model.TradeModel) string) []BreakdownRow {
	groups := make(map[string]*BreakdownRow)
	for _, t := range trades {
		k := key(t)
		row, ok := groups[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			groups[k] = row
		}
		row.Trades++
		if t.ProfitLoss > 0 {
			row.Wins++
		}
		row.NetProfit = addFloat(row.NetProfit, t.ProfitLoss)
	}
	out := make([]BreakdownRow, 0, len(groups))
	for _, row := range groups {
		if row.Trades > 0 {
			row.WinRate = float64(row.Wins) / float64(row.Trades)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetProfit != out[j].NetProfit {
			return out[i].NetProfit > out[j].NetProfit
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func addFloat(a, b float64) float64 {
	sum, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return sum
}
