package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Load 读取配置并解码成 T。onChange 非空时监听文件变更，每次变更解码出一份新的 T 回调出去，
// 旧值不会被原地修改，调用方自己决定怎么替换。
func Load[T any](cfgName string, onChange func(T)) (T, string, error) {
	var out T
	path, err := Resolve(cfgName)
	if err != nil {
		return out, "", err
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err = v.ReadInConfig(); err != nil {
		return out, path, fmt.Errorf("read config %s: %w", path, err)
	}
	if err = v.Unmarshal(&out); err != nil {
		return out, path, fmt.Errorf("decode config %s: %w", path, err)
	}

	if onChange != nil {
		v.OnConfigChange(func(e fsnotify.Event) {
			var next T
			if err := v.Unmarshal(&next); err != nil {
				zap.L().Error("reload config failed", zap.String("path", e.Name), zap.Error(err))
				return
			}
			zap.L().Info("config reloaded", zap.String("path", e.Name), zap.String("op", e.Op.String()))
			onChange(next)
		})
		v.WatchConfig()
	}
	return out, path, nil
}
