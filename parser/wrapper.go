package parser

import (
	"errors"
	"log/slog"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// ErrParseFailure 表示片段在所有包装层级下都无法解析
var ErrParseFailure = errors.New("fragment does not parse at any wrap level")

// Wrapper 是某一层级的前缀/后缀
type Wrapper struct {
	Level  model.WrapLevel
	Prefix string
	Suffix string
}

// Wrappers 按尝试顺序排列，宽松程度递增
var Wrappers = []Wrapper{
	{Level: model.WrapRaw, Prefix: "", Suffix: ""},
	{Level: model.WrapClass, Prefix: "class SampleClass {", Suffix: "\n}"},
	{Level: model.WrapClassMethod, Prefix: "class SampleClass {\nvoid SampleMethod() {", Suffix: "\n}\n}"},
}

// WrapperFor 返回层级对应的包装
func WrapperFor(level model.WrapLevel) Wrapper {
	for _, w := range Wrappers {
		if w.Level == level {
			return w
		}
	}
	return Wrappers[0]
}

// WrapAndParse 依次尝试各包装层级，返回第一个解析成功的 Unit。
// 一旦某层成功就不再尝试更高层级。
func WrapAndParse(p Parser, fragment string) (*Unit, error) {
	validator := GetUnitValidator(p.Language())

	for _, w := range Wrappers {
		source := []byte(w.Prefix + fragment + w.Suffix)
		tree, err := p.Parse(source)
		if err != nil {
			return nil, err
		}

		root := tree.RootNode()
		if root.HasError() || !validator.Accept(root, w.Level) {
			slog.Debug("wrap.level.rejected", "level", w.Level.String())
			tree.Close()
			continue
		}

		return &Unit{
			Language: p.Language(),
			Level:    w.Level,
			Tree:     tree,
			Root:     root,
			Source:   source,
			Prefix:   len(w.Prefix),
			Suffix:   len(w.Suffix),
		}, nil
	}

	return nil, ErrParseFailure
}
