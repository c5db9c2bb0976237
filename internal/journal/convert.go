package journal

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04:05"

// ConvertMatch 把一条 TradeMatch 映射为落库的 Trade。纯映射，不会失败。
// 手续费本核心不计算，固定为 0，需要时由外部补充。
func ConvertMatch(match TradeMatch, userID, filename string) Trade {
	side := "short"
	if match.Entry.Side == SideBuy {
		side = "long"
	}
	return Trade{
		UserID:          userID,
		Symbol:          match.Entry.Symbol,
		Side:            side,
		Quantity:        match.Entry.Quantity,
		EntryPrice:      match.Entry.Price,
		ExitPrice:       match.Exit.Price,
		EntryTime:       match.Entry.Timestamp.Format(timeOfDayLayout),
		ExitTime:        match.Exit.Timestamp.Format(timeOfDayLayout),
		TradeDate:       truncateToDay(match.Entry.Timestamp),
		ProfitLoss:      match.ProfitLoss,
		Commission:      0,
		DurationMinutes: match.DurationMinutes,
		Notes:           fmt.Sprintf("Matched orders %s -> %s", match.Entry.OrderNumber, match.Exit.OrderNumber),
		CSVFilename:     filename,
	}
}

func truncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
