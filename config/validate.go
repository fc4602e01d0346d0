package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

var (
	// ErrInvalidMode mode 不是 extract / rewrite
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidWorkers batch.workers 小于 1
	ErrInvalidWorkers = errors.New("invalid batch workers")

	// ErrInvalidMaxMessages serve.max_messages 小于 1
	ErrInvalidMaxMessages = errors.New("invalid max messages")

	// ErrInvalidLogLevel 无法识别的日志级别
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate 检查配置，返回所有问题
func Validate(cfg *Config) error {
	var errs []error

	if _, err := model.ParseMode(cfg.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode))
	}
	if cfg.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Batch.Workers))
	}
	if cfg.Serve.MaxMessages < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxMessages, cfg.Serve.MaxMessages))
	}
	if _, err := ParseLogLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLogLevel 把配置中的级别名映射为 slog.Level
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}
