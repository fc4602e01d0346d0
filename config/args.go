package config

import (
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// ApplyPositional 按顺序应用位置布尔参数：
//
//	extractSequence keepImports keepComments keepLiterals [keepUnknownMethodCalls]
//
// 只有字面量 "true" (忽略大小写) 为真，缺省的参数保持原配置。
// keepLiterals 同时决定是否抽取变量声明。
func (c *Config) ApplyPositional(args []string) {
	flag := func(i int) (bool, bool) {
		if i >= len(args) {
			return false, false
		}
		return strings.EqualFold(args[i], "true"), true
	}

	if v, ok := flag(0); ok {
		if v {
			c.Mode = string(model.ModeExtract)
		} else {
			c.Mode = string(model.ModeRewrite)
		}
	}
	if v, ok := flag(1); ok {
		c.Keep.Imports = v
	}
	if v, ok := flag(2); ok {
		c.Keep.Comments = v
	}
	if v, ok := flag(3); ok {
		c.Keep.Literals = v
		c.Keep.Declarations = v
	}
	if v, ok := flag(4); ok {
		c.Keep.UnknownCalls = v
	}
}
