package java

import (
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/rewriter"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Rewriter 为 Java 片段生成编辑：删除 package/import、删除注释、字面量替换为占位符
type Rewriter struct{}

func NewJavaRewriter() *Rewriter {
	return &Rewriter{}
}

func (r *Rewriter) Edits(unit *parser.Unit, opts model.Options) ([]rewriter.Edit, error) {
	edits := make([]rewriter.Edit, 0)

	if !opts.KeepImports {
		for i := uint(0); i < unit.Root.NamedChildCount(); i++ {
			child := unit.Root.NamedChild(i)
			if child.Kind() == KindPackageDeclaration || child.Kind() == KindImportDeclaration {
				edits = append(edits, removal(child))
			}
		}
	}

	parser.Walk(unit.Root, func(n *sitter.Node) bool {
		kind := n.Kind()
		if kind == KindLineComment || kind == KindBlockComment {
			if !opts.KeepComments {
				edits = append(edits, removal(n))
			}
			return false
		}
		if opts.KeepLiterals {
			return true
		}
		if placeholder, ok := literalPlaceholder(n, unit.Source); ok {
			if placeholder != unit.Text(n) {
				edits = append(edits, rewriter.Edit{Start: n.StartByte(), End: n.EndByte(), Text: placeholder})
			}
			return false
		}
		return true
	})

	return edits, nil
}

func removal(n *sitter.Node) rewriter.Edit {
	return rewriter.Edit{Start: n.StartByte(), End: n.EndByte(), Remove: true}
}

// literalPlaceholder 返回字面量节点对应的占位符；非字面量返回 false
func literalPlaceholder(n *sitter.Node, src []byte) (string, bool) {
	switch n.Kind() {
	case "character_literal":
		return PlaceholderChar, true
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		return PlaceholderDouble, true
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if text := parser.NodeText(n, src); strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
			return PlaceholderLong, true
		}
		return PlaceholderInteger, true
	case "string_literal":
		// 文本块 ("""...""") 不在已知字面量之列
		if strings.HasPrefix(parser.NodeText(n, src), `"""`) {
			return PlaceholderUnknown, true
		}
		return PlaceholderString, true
	case "true", "false":
		return PlaceholderBoolean, true
	case "null_literal":
		return PlaceholderNull, true
	}
	return "", false
}
