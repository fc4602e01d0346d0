package main

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/cli"

	// 导入语言实现，触发其 init() 注册语法、Collector、Resolver 与 Rewriter
	_ "github.com/CodMac/go-treesitter-code-tokenizer/x/java"
)

func main() {
	cli.Execute()
}
