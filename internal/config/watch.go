package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"tradenote/internal/logger"
)

// Watch 监听配置文件变更，成功重载后回调 onChange。
// 重载失败只记日志，继续沿用旧配置。
func Watch(path string, onChange func(*Config)) error {
	if path == "" || onChange == nil {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		cfg, err := Load(path)
		if err != nil {
			logger.Errorf("配置重载失败: %v", err)
			return
		}
		logger.Infof("配置已重载 (%s)", evt.Name)
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
