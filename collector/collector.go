package collector

import (
	"fmt"

	"github.com/CodMac/go-treesitter-code-tokenizer/core"
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"github.com/CodMac/go-treesitter-code-tokenizer/parser"
)

// Collector 负责从解析单元中收集声明与语义条目。实现只读访问语法树。
type Collector interface {
	// CollectDefinitions 遍历 AST，建立并返回该片段的 FileContext (包名、导入、片段内声明的类型)。
	CollectDefinitions(unit *parser.Unit) (*core.FileContext, error)

	// CollectEntries 按固定的类别顺序抽取条目：导入、注释、变量声明、对象创建、方法调用。
	// 返回的顺序即位置相同时的排序依据。
	CollectEntries(gc *core.GlobalContext, fc *core.FileContext, unit *parser.Unit, opts model.Options) ([]*model.Entry, error)
}

var collectorMap = make(map[model.Language]Collector)

// RegisterCollector 注册一个语言与其对应的 Collector
func RegisterCollector(lang model.Language, collector Collector) {
	collectorMap[lang] = collector
}

// GetCollector 根据语言类型获取对应的 Collector 实例。
func GetCollector(lang model.Language) (Collector, error) {
	collector, ok := collectorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no collector registered for language: %s", lang)
	}

	return collector, nil
}
