// Package journal 实现交易日志的核心重建流水线：
// 文件文本 → 表格行 → 规范化成交 → FIFO 配对 → 回合交易。
//
// 整条流水线是纯函数式的：同一输入永远得到同一输出，调用之间不共享
// 任何可变状态，多个文件可并发处理而无需协调。除上游的文件读取外，
// 流水线内部不产生错误——坏行被丢弃并记录原因，坏文件降级为空结果。
package journal

// Process 处理单个导出文件的全文，产出回合交易、未配对剩余与丢弃明细。
// userID 与 filename 是透传的归属信息，本包不解释。
func Process(text, userID, filename string, format Format) Result {
	format = format.withDefaults()
	rows := ExtractRows(text, format)
	fills, rejections := NormalizeRows(rows, format)
	matched := MatchFIFO(fills)

	result := Result{
		Unmatched:  matched.Unmatched,
		Rejections: rejections,
		Fills:      len(fills),
	}
	for _, match := range matched.Matches {
		result.Trades = append(result.Trades, ConvertMatch(match, userID, filename))
	}
	return result
}
