package parser

import (
	"fmt"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser 定义了所有语言解析器的通用能力 (Grammar Capability)
type Parser interface {
	// Parse 使用相应的 Tree-sitter 语言库解析源码，返回语法树。调用方负责 tree.Close()。
	Parse(source []byte) (*sitter.Tree, error)
	// Language 返回解析器针对的语言
	Language() model.Language
	// Close 释放 Tree-sitter 内部资源
	Close()
}

// TreeSitterParser 是 Parser 接口的具体实现。
// 底层 sitter.Parser 不是并发安全的，每个 worker 需要持有自己的实例。
type TreeSitterParser struct {
	lang     model.Language
	tsParser *sitter.Parser
}

// NewParser 创建一个新的 TreeSitterParser 实例
func NewParser(lang model.Language) (*TreeSitterParser, error) {
	tsLang, err := model.GetLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &TreeSitterParser{
		lang:     lang,
		tsParser: tsParser,
	}, nil
}

// Parse 实现了 Parser 接口
func (p *TreeSitterParser) Parse(source []byte) (*sitter.Tree, error) {
	tree := p.tsParser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s source", p.lang)
	}
	return tree, nil
}

func (p *TreeSitterParser) Language() model.Language {
	return p.lang
}

func (p *TreeSitterParser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
		p.tsParser = nil
	}
}
