package journal

import (
	"sort"

	"github.com/shopspring/decimal"
)

// openLot 是等待被平掉的剩余仓位，index 指向时间排序后的下标。
type openLot struct {
	index     int
	remaining int64
}

type matchRecord struct {
	entryIndex int
	exitIndex  int
	quantity   int64
}

// MatchResult 同时返回配对结果与未配对剩余，后者是显式命名的产出，
// 供调用方诊断"有成交但无完整回合"的场景。
type MatchResult struct {
	Matches   []TradeMatch
	Unmatched []Lot
}

// MatchFIFO 对一组 Fill 做先进先出配对。
//
// 排序规则：按时间升序的稳定排序，时间完全相同的按输入顺序——这一点
// 直接决定哪些成交互相配对，必须保持以保证可复现。随后每笔成交按
// 时间序依次入场：先尽量消耗同品种反向队列头部的剩余仓位（可跨多笔
// 吸收），自身仍有剩余则按序入队等待后续反向成交。每个品种两条方向
// 队列，入队/出队摊销 O(1)；输出按（入场下标，出场下标）排序，与
// 朴素的"逐开仓者向后扫描"产生完全相同的配对与顺序。
//
// 入参不被修改；剩余数量记录在局部队列中。始终到达不了闭合的成交
// 不产生 TradeMatch，而是进入 Unmatched 桶。
func MatchFIFO(fills []Fill) MatchResult {
	if len(fills) == 0 {
		return MatchResult{}
	}

	ordered := make([]Fill, len(fills))
	copy(ordered, fills)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	// queues[symbol][side] → 待平仓 lot 的 FIFO 队列。
	queues := make(map[string]map[Side][]openLot)
	sideQueue := func(symbol string, side Side) []openLot {
		if m, ok := queues[symbol]; ok {
			return m[side]
		}
		return nil
	}
	setQueue := func(symbol string, side Side, q []openLot) {
		m, ok := queues[symbol]
		if !ok {
			m = make(map[Side][]openLot, 2)
			queues[symbol] = m
		}
		m[side] = q
	}

	var records []matchRecord
	for i, fill := range ordered {
		remaining := fill.Quantity
		opposite := sideQueue(fill.Symbol, fill.Side.Opposite())
		for remaining > 0 && len(opposite) > 0 {
			lot := &opposite[0]
			matched := remaining
			if lot.remaining < matched {
				matched = lot.remaining
			}
			records = append(records, matchRecord{
				entryIndex: lot.index,
				exitIndex:  i,
				quantity:   matched,
			})
			lot.remaining -= matched
			remaining -= matched
			if lot.remaining == 0 {
				opposite = opposite[1:]
			}
		}
		setQueue(fill.Symbol, fill.Side.Opposite(), opposite)
		if remaining > 0 {
			same := sideQueue(fill.Symbol, fill.Side)
			setQueue(fill.Symbol, fill.Side, append(same, openLot{index: i, remaining: remaining}))
		}
	}

	// 按开仓者顺序输出，开仓者相同再按平仓者顺序。
	sort.Slice(records, func(i, j int) bool {
		if records[i].entryIndex != records[j].entryIndex {
			return records[i].entryIndex < records[j].entryIndex
		}
		return records[i].exitIndex < records[j].exitIndex
	})

	result := MatchResult{}
	for _, rec := range records {
		entry := ordered[rec.entryIndex]
		exit := ordered[rec.exitIndex]
		entry.Quantity = rec.quantity
		exit.Quantity = rec.quantity
		result.Matches = append(result.Matches, TradeMatch{
			Entry:           entry,
			Exit:            exit,
			ProfitLoss:      profitLoss(ordered[rec.entryIndex], ordered[rec.exitIndex], rec.quantity),
			DurationMinutes: int64(exit.Timestamp.Sub(entry.Timestamp).Minutes()),
		})
	}

	for _, m := range queues {
		for _, q := range m {
			for _, lot := range q {
				result.Unmatched = append(result.Unmatched, Lot{
					Fill:      ordered[lot.index],
					Remaining: lot.remaining,
				})
			}
		}
	}
	sort.Slice(result.Unmatched, func(i, j int) bool {
		a, b := result.Unmatched[i].Fill, result.Unmatched[j].Fill
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.OrderNumber < b.OrderNumber
	})
	return result
}

// profitLoss 的符号规则：开仓者为买（做多）时 = (平仓价-开仓价)×数量，
// 开仓者为卖（做空）时取反。用 decimal 计算避免刻度价格的浮点误差。
func profitLoss(entry, exit Fill, quantity int64) float64 {
	entryPrice := decimal.NewFromFloat(entry.Price)
	exitPrice := decimal.NewFromFloat(exit.Price)
	qty := decimal.NewFromInt(quantity)
	var diff decimal.Decimal
	if entry.Side == SideBuy {
		diff = exitPrice.Sub(entryPrice)
	} else {
		diff = entryPrice.Sub(exitPrice)
	}
	pl, _ := diff.Mul(qty).Float64()
	return pl
}
