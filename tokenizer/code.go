package tokenizer

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Token 是代码中的一个词法单元
type Token struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// wholeTokenKinds 作为整体输出，不再拆分子节点
var wholeTokenKinds = map[string]bool{
	"string_literal":    true,
	"character_literal": true,
}

var commentKinds = map[string]bool{
	"comment":       true,
	"line_comment":  true,
	"block_comment": true,
}

// CodeTokens 把 (改写后的) 代码切分成叶子 token：注释跳过，字符串与字符字面量保持完整。
// 代码在任何包装层级都无法解析时返回空结果。
func CodeTokens(p parser.Parser, code string) []Token {
	if code == "" || code == model.ErrorMessage {
		return []Token{}
	}

	unit, err := parser.WrapAndParse(p, code)
	if err != nil {
		return []Token{}
	}
	defer unit.Close()

	fragStart, fragEnd := unit.FragmentRange()
	tokens := make([]Token, 0)

	parser.Walk(unit.Root, func(n *sitter.Node) bool {
		// 包装部分的 token 不属于片段
		if n.EndByte() <= fragStart || n.StartByte() >= fragEnd {
			return false
		}
		kind := n.Kind()
		if commentKinds[kind] {
			return false
		}
		if n.ChildCount() > 0 && !wholeTokenKinds[kind] {
			return true
		}

		content := unit.Text(n)
		if content == "" || n.IsMissing() {
			return false
		}
		pos := unit.FragmentPosition(n)
		tokens = append(tokens, Token{
			Type:   kind,
			Value:  content,
			Line:   pos.Line,
			Column: pos.Column,
		})
		return false
	})
	return tokens
}

// Values 只保留 token 文本
func Values(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}
