package core

import (
	"strings"
	"sync"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "annotation"
)

// TypeDef 描述类型宇宙中的一个类型。
// 内置类型的成员类型都是全限定名；片段内声明的类型保留源码中的写法，由 Resolver 按上下文解析。
type TypeDef struct {
	Kind          TypeKind          `yaml:"kind"`
	Name          string            `yaml:"-"`
	QualifiedName string            `yaml:"name"`
	SuperTypes    []string          `yaml:"supertypes"`
	Methods       map[string]string `yaml:"methods"` // 方法名 -> 返回类型
	Fields        map[string]string `yaml:"fields"`  // 字段名 -> 类型
	Declared      bool              `yaml:"-"`       // 是否声明于当前片段
	Node          *sitter.Node      `yaml:"-"`
}

// SimpleName 返回全限定名的最后一段
func SimpleName(qn string) string {
	if i := strings.LastIndex(qn, "."); i >= 0 {
		return qn[i+1:]
	}
	return qn
}

type ImportEntry struct {
	RawImportPath string          `json:"RawImportPath"`
	Alias         string          `json:"Alias"`
	IsWildcard    bool            `json:"IsWildcard"`
	IsStatic      bool            `json:"IsStatic"`
	Location      *model.Position `json:"Location,omitempty"`
}

// WildcardKey 是通配符导入在 Imports 中使用的键
const WildcardKey = "*"

// FileContext 保存单次请求 (一个片段) 的声明信息，只属于该请求
type FileContext struct {
	PackageName     string
	Level           model.WrapLevel
	RootNode        *sitter.Node
	SourceBytes     []byte
	DefinitionsBySN map[string][]*TypeDef
	DefinitionsByQN map[string]*TypeDef
	Imports         map[string][]*ImportEntry
}

func NewFileContext(rootNode *sitter.Node, sourceBytes []byte, level model.WrapLevel) *FileContext {
	return &FileContext{
		Level:           level,
		RootNode:        rootNode,
		SourceBytes:     sourceBytes,
		DefinitionsBySN: make(map[string][]*TypeDef),
		DefinitionsByQN: make(map[string]*TypeDef),
		Imports:         make(map[string][]*ImportEntry),
	}
}

// AddDefinition 注册片段内声明的类型，relName 为相对于包的名字 (嵌套类型形如 Outer.Inner)
func (fc *FileContext) AddDefinition(def *TypeDef, relName string) {
	def.Declared = true
	fc.DefinitionsByQN[def.QualifiedName] = def
	fc.DefinitionsBySN[def.Name] = append(fc.DefinitionsBySN[def.Name], def)
	if relName != def.Name {
		fc.DefinitionsBySN[relName] = append(fc.DefinitionsBySN[relName], def)
	}
}

func (fc *FileContext) AddImport(alias string, imp *ImportEntry) {
	fc.Imports[alias] = append(fc.Imports[alias], imp)
}

// Wildcards 返回 (静态或普通) 通配符导入
func (fc *FileContext) Wildcards(static bool) []*ImportEntry {
	var out []*ImportEntry
	for _, imp := range fc.Imports[WildcardKey] {
		if imp.IsStatic == static {
			out = append(out, imp)
		}
	}
	return out
}

// --- GlobalContext: 共享只读的类型宇宙 ---

type GlobalContext struct {
	DefinitionsByQN map[string]*TypeDef
	resolver        SymbolResolver // 持有具体语言的解析器
	mutex           sync.RWMutex
}

func NewGlobalContext(resolver SymbolResolver) *GlobalContext {
	return &GlobalContext{
		DefinitionsByQN: make(map[string]*TypeDef),
		resolver:        resolver,
	}
}

// AddDefinition 注册一个类型；同名类型已存在时合并成员，后加载的覆盖先加载的
func (gc *GlobalContext) AddDefinition(def *TypeDef) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	def.Name = SimpleName(def.QualifiedName)
	if def.Kind == "" {
		def.Kind = KindClass
	}

	existing, ok := gc.DefinitionsByQN[def.QualifiedName]
	if !ok {
		gc.DefinitionsByQN[def.QualifiedName] = def
		return
	}
	if existing.Methods == nil {
		existing.Methods = make(map[string]string)
	}
	if existing.Fields == nil {
		existing.Fields = make(map[string]string)
	}
	for k, v := range def.Methods {
		existing.Methods[k] = v
	}
	for k, v := range def.Fields {
		existing.Fields[k] = v
	}
	for _, st := range def.SuperTypes {
		if !containsString(existing.SuperTypes, st) {
			existing.SuperTypes = append(existing.SuperTypes, st)
		}
	}
}

// Lookup 按全限定名查找类型，片段内声明的类型优先
func (gc *GlobalContext) Lookup(fc *FileContext, qn string) (*TypeDef, bool) {
	if fc != nil {
		if def, ok := fc.DefinitionsByQN[qn]; ok {
			return def, true
		}
	}
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	def, ok := gc.DefinitionsByQN[qn]
	return def, ok
}

func (gc *GlobalContext) Len() int {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return len(gc.DefinitionsByQN)
}

// ResolveCall 由具体语言的 Resolver 驱动
func (gc *GlobalContext) ResolveCall(fc *FileContext, call *sitter.Node) (string, error) {
	return gc.resolver.ResolveCall(gc, fc, call)
}

func (gc *GlobalContext) BuildQualifiedName(parentQN, name string) string {
	return gc.resolver.BuildQualifiedName(parentQN, name)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
