package journal

import (
	"encoding/csv"
	"strings"
)

// ExtractRows 在原始文件文本中定位表格区并解析为 RawRow 序列。
// 表格区由首个包含 SectionMarker 的行引出，下一非空行为列头。
// 找不到标记时返回空结果（降级为"无成交"，不是错误）。
func ExtractRows(text string, format Format) []RawRow {
	format = format.withDefaults()
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, format.SectionMarker) {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return nil
	}

	body := strings.Join(lines[start:], "\n")
	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var header []string
	var rows []RawRow
	for {
		record, err := reader.Read()
		if err != nil {
			// 行级解析错误与 EOF 一样终止表格区，已得部分照常返回。
			break
		}
		if isBlank(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, name := range record {
				header[i] = strings.TrimSpace(name)
			}
			continue
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		if keepRow(row, format) {
			rows = append(rows, row)
		}
	}
	return rows
}

// keepRow 要求 status/side/symbol 三列非空，且 status 不等于列头字面值
// （避免把文件内嵌的第二个表头当成数据行）。
func keepRow(row RawRow, format Format) bool {
	status := row[format.StatusColumn]
	if status == "" || status == format.StatusColumn {
		return false
	}
	if row[format.SideColumn] == "" {
		return false
	}
	if row[format.SymbolColumn] == "" {
		return false
	}
	return true
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
