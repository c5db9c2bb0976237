package journal

// Format 描述券商导出文件的版式约定：表格区前的标记行、各列列名、
// 状态与方向的字面值、时间戳格式。字段留空时取默认值。
type Format struct {
	SectionMarker string `toml:"section_marker"`
	FilledStatus  string `toml:"filled_status"`

	StatusColumn      string `toml:"status_column"`
	SideColumn        string `toml:"side_column"`
	SymbolColumn      string `toml:"symbol_column"`
	PriceColumn       string `toml:"price_column"`
	QuantityColumn    string `toml:"quantity_column"`
	OrderNumberColumn string `toml:"order_number_column"`
	CreateTimeColumn  string `toml:"create_time_column"`
	UpdateTimeColumn  string `toml:"update_time_column"`

	BuyCode  string `toml:"buy_code"`
	SellCode string `toml:"sell_code"`

	TimeLayouts []string `toml:"time_layouts"`
}

// DefaultFormat 匹配 Rithmic 风格的 "Completed Orders" 导出。
func DefaultFormat() Format {
	return Format{
		SectionMarker:     "Completed Orders",
		FilledStatus:      "Filled",
		StatusColumn:      "Status",
		SideColumn:        "Buy/Sell",
		SymbolColumn:      "Symbol",
		PriceColumn:       "Avg Fill Price",
		QuantityColumn:    "Qty Filled",
		OrderNumberColumn: "Order Number",
		CreateTimeColumn:  "Create Time",
		UpdateTimeColumn:  "Update Time",
		BuyCode:           "B",
		SellCode:          "S",
		TimeLayouts: []string{
			"2006/01/02 15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05Z07:00",
		},
	}
}

func (f Format) withDefaults() Format {
	def := DefaultFormat()
	if f.SectionMarker == "" {
		f.SectionMarker = def.SectionMarker
	}
	if f.FilledStatus == "" {
		f.FilledStatus = def.FilledStatus
	}
	if f.StatusColumn == "" {
		f.StatusColumn = def.StatusColumn
	}
	if f.SideColumn == "" {
		f.SideColumn = def.SideColumn
	}
	if f.SymbolColumn == "" {
		f.SymbolColumn = def.SymbolColumn
	}
	if f.PriceColumn == "" {
		f.PriceColumn = def.PriceColumn
	}
	if f.QuantityColumn == "" {
		f.QuantityColumn = def.QuantityColumn
	}
	if f.OrderNumberColumn == "" {
		f.OrderNumberColumn = def.OrderNumberColumn
	}
	if f.CreateTimeColumn == "" {
		f.CreateTimeColumn = def.CreateTimeColumn
	}
	if f.UpdateTimeColumn == "" {
		f.UpdateTimeColumn = def.UpdateTimeColumn
	}
	if f.BuyCode == "" {
		f.BuyCode = def.BuyCode
	}
	if f.SellCode == "" {
		f.SellCode = def.SellCode
	}
	if len(f.TimeLayouts) == 0 {
		f.TimeLayouts = def.TimeLayouts
	}
	return f
}
