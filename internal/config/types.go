package config

import "tradenote/internal/journal"

// Config 是 tradenote 的主配置载体。
type Config struct {
	App     AppConfig     `toml:"app"`
	Storage StorageConfig `toml:"storage"`
	Import  ImportConfig  `toml:"import"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// StorageConfig 指定交易库与导入流水库的落盘位置。
type StorageConfig struct {
	TradeDBPath   string `toml:"trade_db_path"`
	HistoryDBPath string `toml:"history_db_path"`
}

// ImportConfig 控制上传限制与导出文件版式。
type ImportConfig struct {
	MaxUploadBytes     int64          `toml:"max_upload_bytes"`
	MaxFilesPerRequest int            `toml:"max_files_per_request"`
	Format             journal.Format `toml:"format"`
}
