package config

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// ConfigFileName 是在工作目录下查找的配置文件名 (不含后缀)
const ConfigFileName = ".codetok"

// Config 是 codetok 的完整配置，可由 .codetok.yaml 与 CODETOK_* 环境变量覆盖
type Config struct {
	Mode  string      `yaml:"mode" mapstructure:"mode"` // "extract" 或 "rewrite"
	Keep  KeepConfig  `yaml:"keep" mapstructure:"keep"`
	Types TypesConfig `yaml:"types" mapstructure:"types"`
	Serve ServeConfig `yaml:"serve" mapstructure:"serve"`
	Index IndexConfig `yaml:"index" mapstructure:"index"`
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// KeepConfig 对应 model.Options
type KeepConfig struct {
	Imports      bool `yaml:"imports" mapstructure:"imports"`
	Comments     bool `yaml:"comments" mapstructure:"comments"`
	Declarations bool `yaml:"declarations" mapstructure:"declarations"`
	Literals     bool `yaml:"literals" mapstructure:"literals"`
	UnknownCalls bool `yaml:"unknown_calls" mapstructure:"unknown_calls"`
}

// TypesConfig 额外的类型表文件，叠加在内置 JDK 类型表之上
type TypesConfig struct {
	Files []string `yaml:"files" mapstructure:"files"`
}

type ServeConfig struct {
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"` // 为空则不暴露 /metrics
	MaxMessages int    `yaml:"max_messages" mapstructure:"max_messages"` // 客户端重启前的最大消息数
}

type IndexConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // sqlite 文件，为空则不写索引
}

type BatchConfig struct {
	Workers int      `yaml:"workers" mapstructure:"workers"`
	Include []string `yaml:"include" mapstructure:"include"`
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug / info / warn / error
}

// Default 返回默认配置：与缺省位置参数一致，改写模式且所有 keep 选项关闭
func Default() *Config {
	return &Config{
		Mode: string(model.ModeRewrite),
		Serve: ServeConfig{
			MaxMessages: 200000,
		},
		Batch: BatchConfig{
			Workers: 4,
			Include: []string{"**/*.java"},
			Ignore: []string{
				"**/.git/**",
				"**/target/**",
				"**/build/**",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Options 把 keep.* 转换为处理选项
func (c *Config) Options() model.Options {
	return model.Options{
		KeepImports:      c.Keep.Imports,
		KeepComments:     c.Keep.Comments,
		KeepDeclarations: c.Keep.Declarations,
		KeepLiterals:     c.Keep.Literals,
		KeepUnknownCalls: c.Keep.UnknownCalls,
	}
}
