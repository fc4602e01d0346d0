package parser

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// UnitValidator 判断一棵无语法错误的树在给定包装层级下是否可被接受。
// 有些语法 (例如 tree-sitter-java) 在顶层也接受语句，需要语言自身收紧 RAW 层级的判定。
type UnitValidator interface {
	Accept(root *sitter.Node, level model.WrapLevel) bool
}

var validatorMap = make(map[model.Language]UnitValidator)

// RegisterUnitValidator 注册一个语言与其对应的 UnitValidator
func RegisterUnitValidator(lang model.Language, v UnitValidator) {
	validatorMap[lang] = v
}

// GetUnitValidator 获取语言对应的 UnitValidator，未注册时接受所有无错误的树
func GetUnitValidator(lang model.Language) UnitValidator {
	if v, ok := validatorMap[lang]; ok {
		return v
	}
	return acceptAll{}
}

type acceptAll struct{}

func (acceptAll) Accept(*sitter.Node, model.WrapLevel) bool { return true }
