package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFullPipeline(t *testing.T) {
	res := Process(sampleExport, "user-7", "export.csv", DefaultFormat())

	// buy 2 @5100，之后 sell 1 @5105、sell 1 @5110：两个回合。
	require.Len(t, res.Trades, 2)
	first := res.Trades[0]
	assert.Equal(t, "user-7", first.UserID)
	assert.Equal(t, "export.csv", first.CSVFilename)
	assert.Equal(t, "ESM4", first.Symbol)
	assert.Equal(t, "long", first.Side)
	assert.Equal(t, int64(1), first.Quantity)
	assert.InDelta(t, 5.0, first.ProfitLoss, 1e-9)
	assert.InDelta(t, 0.0, first.Commission, 1e-9)
	assert.Equal(t, "09:30:00", first.EntryTime)
	assert.Equal(t, "09:45:00", first.ExitTime)
	assert.Equal(t, int64(15), first.DurationMinutes)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), first.TradeDate)
	assert.Contains(t, first.Notes, "1001")
	assert.Contains(t, first.Notes, "1002")

	second := res.Trades[1]
	assert.InDelta(t, 10.0, second.ProfitLoss, 1e-9)
	assert.Contains(t, second.Notes, "1004")

	// 已撤单被丢弃并记录原因。
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, RejectNotFilled, res.Rejections[0].Reason)
	assert.Equal(t, "1003", res.Rejections[0].OrderNumber)

	assert.Empty(t, res.Unmatched)
	assert.Equal(t, 3, res.Fills)
}

func TestProcessIsIdempotent(t *testing.T) {
	first := Process(sampleExport, "u", "f.csv", DefaultFormat())
	second := Process(sampleExport, "u", "f.csv", DefaultFormat())
	assert.Equal(t, first, second)
}

func TestProcessGarbageInputYieldsEmptyResult(t *testing.T) {
	res := Process("<html>not a csv at all</html>", "u", "junk.csv", DefaultFormat())
	assert.Empty(t, res.Trades)
	assert.Empty(t, res.Unmatched)
	assert.Empty(t, res.Rejections)
}

func TestProcessPartialFillNeverReachesOutput(t *testing.T) {
	text := `Completed Orders,
Account,Status,Buy/Sell,Symbol,Avg Fill Price,Order Number,Create Time,Update Time,Qty Filled
demo,Partially Filled,B,ESM4,5100.00,2001,2024/03/11 09:30:00,,1
demo,Filled,S,ESM4,5105.00,2002,2024/03/11 09:45:00,,1
`
	res := Process(text, "u", "f.csv", DefaultFormat())
	assert.Empty(t, res.Trades)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, "2001", res.Rejections[0].OrderNumber)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "2002", res.Unmatched[0].Fill.OrderNumber)
}

func TestConvertMatchShortSide(t *testing.T) {
	match := TradeMatch{
		Entry:           fillAt("CL", SideSell, 1, 100, 0, "s1"),
		Exit:            fillAt("CL", SideBuy, 1, 90, 10, "b1"),
		ProfitLoss:      10,
		DurationMinutes: 10,
	}
	trade := ConvertMatch(match, "user-1", "day.csv")
	assert.Equal(t, "short", trade.Side)
	assert.InDelta(t, 100.0, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 90.0, trade.ExitPrice, 1e-9)
	assert.InDelta(t, 10.0, trade.ProfitLoss, 1e-9)
	assert.Equal(t, "Matched orders s1 -> b1", trade.Notes)
}
