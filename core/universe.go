package core

import (
	"fmt"
	"os"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	"gopkg.in/yaml.v3"
)

// TypeFile 是类型宇宙 YAML 文件的结构
type TypeFile struct {
	Types []*TypeDef `yaml:"types"`
}

var builtinTypesMap = make(map[model.Language][]byte)

// RegisterBuiltinTypes 注册语言内置的类型表 (YAML)
func RegisterBuiltinTypes(lang model.Language, data []byte) {
	builtinTypesMap[lang] = data
}

// LoadYAML 解析 YAML 类型表并注册到 GlobalContext
func (gc *GlobalContext) LoadYAML(data []byte) error {
	var tf TypeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("failed to decode type table: %w", err)
	}
	for i, def := range tf.Types {
		if def == nil || def.QualifiedName == "" {
			return fmt.Errorf("type table entry %d has no name", i)
		}
		gc.AddDefinition(def)
	}
	return nil
}

// LoadFile 读取用户提供的类型表文件
func (gc *GlobalContext) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read type table %s: %w", path, err)
	}
	if err := gc.LoadYAML(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// NewGlobalContextFor 创建某语言的 GlobalContext：内置类型表 + 额外的类型表文件
func NewGlobalContextFor(lang model.Language, typeFiles ...string) (*GlobalContext, error) {
	resolver, err := GetSymbolResolver(lang)
	if err != nil {
		return nil, err
	}

	gc := NewGlobalContext(resolver)
	if data, ok := builtinTypesMap[lang]; ok {
		if err := gc.LoadYAML(data); err != nil {
			return nil, fmt.Errorf("builtin %s types: %w", lang, err)
		}
	}
	for _, f := range typeFiles {
		if err := gc.LoadFile(f); err != nil {
			return nil, err
		}
	}
	return gc, nil
}
