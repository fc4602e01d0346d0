package java

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/collector"
	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/noisefilter"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
	"github.com/CodMac/go-treesitter-code-tokenizer/rewriter"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func init() {
	// 注册 Tree-sitter Java 语言对象
	model.RegisterLanguage(model.LangJava, sitter.NewLanguage(tree_sitter_java.Language()))
	// 注册编译单元校验 (包装层级判定)
	parser.RegisterUnitValidator(model.LangJava, NewJavaUnitValidator())
	// 注册 Collector
	collector.RegisterCollector(model.LangJava, NewJavaCollector())
	// 注册 NoiseFilter(噪音过滤)
	noisefilter.RegisterNoiseFilter(model.LangJava, NewJavaNoiseFilter())
	// 注册 SymbolResolver(符号解析) 与内置类型表
	core.RegisterSymbolResolver(model.LangJava, NewJavaSymbolResolver())
	core.RegisterBuiltinTypes(model.LangJava, builtinTypes)
	// 注册 Rewriter(字面量匿名化)
	rewriter.RegisterRewriter(model.LangJava, NewJavaRewriter())
}
