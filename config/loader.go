package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader 加载配置
type Loader interface {
	// Load 优先级：默认值 -> 配置文件 -> 环境变量
	Load() (*Config, error)
}

type loader struct {
	path string
}

// NewLoader 创建加载器。path 是具体的配置文件时直接读取；
// 是目录 (或为空即当前目录) 时在其中查找 .codetok.yaml。
func NewLoader(path string) Loader {
	return &loader{path: path}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if strings.HasSuffix(l.path, ".yaml") || strings.HasSuffix(l.path, ".yml") {
		v.SetConfigFile(l.path)
	} else {
		dir := l.path
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	// CODETOK_KEEP_IMPORTS -> keep.imports
	v.SetEnvPrefix("CODETOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults 同时让 AutomaticEnv 能感知到所有键
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("mode", d.Mode)

	v.SetDefault("keep.imports", d.Keep.Imports)
	v.SetDefault("keep.comments", d.Keep.Comments)
	v.SetDefault("keep.declarations", d.Keep.Declarations)
	v.SetDefault("keep.literals", d.Keep.Literals)
	v.SetDefault("keep.unknown_calls", d.Keep.UnknownCalls)

	v.SetDefault("types.files", d.Types.Files)

	v.SetDefault("serve.metrics_addr", d.Serve.MetricsAddr)
	v.SetDefault("serve.max_messages", d.Serve.MaxMessages)

	v.SetDefault("index.path", d.Index.Path)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.include", d.Batch.Include)
	v.SetDefault("batch.ignore", d.Batch.Ignore)

	v.SetDefault("log.level", d.Log.Level)
}
