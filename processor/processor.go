package processor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodMac/go-treesitter-code-tokenizer/collector"
	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/metrics"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/rewriter"
)

// Processor 处理单个片段：包装解析 -> 抽取/改写。
// 持有自己的 tree-sitter 解析器，不是并发安全的；并发场景每个 worker 一个实例。
type Processor struct {
	Language model.Language
	Options  model.Options

	parser    *parser.TreeSitterParser
	collector collector.Collector
	global    *core.GlobalContext
}

// NewProcessor 创建 Processor。语言能力 (语法、Collector、Rewriter、类型表) 缺失时立即失败。
// gc 为 nil 时使用该语言的内置类型表。
func NewProcessor(lang model.Language, opts model.Options, gc *core.GlobalContext) (*Processor, error) {
	col, err := collector.GetCollector(lang)
	if err != nil {
		return nil, err
	}
	if _, err := rewriter.GetRewriter(lang); err != nil {
		return nil, err
	}

	if gc == nil {
		gc, err = core.NewGlobalContextFor(lang)
		if err != nil {
			return nil, fmt.Errorf("failed to load type universe: %w", err)
		}
	}

	p, err := parser.NewParser(lang)
	if err != nil {
		return nil, err
	}

	return &Processor{
		Language:  lang,
		Options:   opts,
		parser:    p,
		collector: col,
		global:    gc,
	}, nil
}

// Entries 返回按抽取顺序排列的条目 (未排序)
func (p *Processor) Entries(fragment string) ([]*model.Entry, error) {
	unit, err := p.parse(fragment)
	if err != nil {
		return nil, err
	}
	defer unit.Close()

	fc, err := p.collector.CollectDefinitions(unit)
	if err != nil {
		return nil, fmt.Errorf("failed to collect definitions: %w", err)
	}
	return p.collector.CollectEntries(p.global, fc, unit, p.Options)
}

// Extract 返回语义 token 序列
func (p *Processor) Extract(fragment string) (string, error) {
	entries, err := p.Entries(fragment)
	if err != nil {
		return "", err
	}
	return JoinSequence(Sequence(entries)), nil
}

// Rewrite 返回去字面量、按选项去掉导入与注释后的片段
func (p *Processor) Rewrite(fragment string) (string, error) {
	unit, err := p.parse(fragment)
	if err != nil {
		return "", err
	}
	defer unit.Close()

	return rewriter.Rewrite(unit, p.Options)
}

// Process 按模式处理片段，任何失败都折叠为 __ERROR__
func (p *Processor) Process(mode model.Mode, fragment string) string {
	start := time.Now()

	out, err := p.run(mode, fragment)

	metrics.RecordRequest(string(mode), err == nil, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, parser.ErrParseFailure) {
			slog.Debug("processor.parse.failed", "mode", mode, "bytes", len(fragment))
		} else {
			slog.Warn("processor.failed", "mode", mode, "err", err)
		}
		return model.ErrorMessage
	}
	return out
}

// run 执行单个模式；语言实现中的 panic 转为错误，保证调用方的循环不中断
func (p *Processor) run(mode model.Mode, fragment string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("panic while processing fragment: %v", r)
		}
	}()

	switch mode {
	case model.ModeExtract:
		return p.Extract(fragment)
	case model.ModeRewrite:
		return p.Rewrite(fragment)
	}
	return "", fmt.Errorf("unknown mode %q", mode)
}

// Unit 返回片段的解析单元，调用方负责 Close
func (p *Processor) Unit(fragment string) (*parser.Unit, error) {
	return p.parse(fragment)
}

func (p *Processor) parse(fragment string) (*parser.Unit, error) {
	unit, err := parser.WrapAndParse(p.parser, fragment)
	if err != nil {
		return nil, err
	}
	metrics.WrapLevels.WithLabelValues(unit.Level.String()).Inc()
	return unit, nil
}

func (p *Processor) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}
