package journal

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeRow 将一条 RawRow 转换为至多一条 Fill。
// 返回 (fill, nil) 表示接受；返回 (_, *Rejection) 表示该行被丢弃及原因。
// 策略是严格的：只有状态等于 FilledStatus 的完全成交行才会进入撮合，
// 部分成交/已撤/已拒的行整体排除，不做部分计入。
func NormalizeRow(row RawRow, format Format) (Fill, *Rejection) {
	format = format.withDefaults()
	status := row[format.StatusColumn]
	orderNo := row[format.OrderNumberColumn]
	reject := func(reason RejectReason) (Fill, *Rejection) {
		return Fill{}, &Rejection{OrderNumber: orderNo, Status: status, Reason: reason}
	}

	symbol := row[format.SymbolColumn]
	if status == "" || symbol == "" || row[format.SideColumn] == "" {
		return reject(RejectMissingFields)
	}
	if !strings.EqualFold(status, format.FilledStatus) {
		return reject(RejectNotFilled)
	}

	var side Side
	switch row[format.SideColumn] {
	case format.BuyCode:
		side = SideBuy
	case format.SellCode:
		side = SideSell
	default:
		return reject(RejectUnknownSide)
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(row[format.QuantityColumn]), 10, 64)
	if err != nil || qty <= 0 {
		return reject(RejectBadQuantity)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(row[format.PriceColumn]), 64)
	if err != nil || price <= 0 {
		return reject(RejectBadPrice)
	}

	// 时间锚定优先取创建时间，缺失时退回更新时间。
	ts, ok := parseTimestamp(row[format.CreateTimeColumn], format.TimeLayouts)
	if !ok {
		ts, ok = parseTimestamp(row[format.UpdateTimeColumn], format.TimeLayouts)
	}
	if !ok {
		return reject(RejectNoTimestamp)
	}

	return Fill{
		Symbol:      symbol,
		Side:        side,
		Quantity:    qty,
		Price:       price,
		Timestamp:   ts,
		OrderNumber: orderNo,
		Status:      status,
	}, nil
}

// NormalizeRows 逐行规范化，拒绝行收集到第二个返回值，永不中断。
func NormalizeRows(rows []RawRow, format Format) ([]Fill, []Rejection) {
	var fills []Fill
	var rejections []Rejection
	for _, row := range rows {
		fill, rej := NormalizeRow(row, format)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		fills = append(fills, fill)
	}
	return fills, rejections
}

func parseTimestamp(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
