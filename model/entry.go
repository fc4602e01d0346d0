package model

import (
	"fmt"
	"strings"
)

// --- 语义 Token 类别 (Entry Categories) ---

// Category 是每个 Entry 标签的固定前缀
type Category string

const (
	Import      Category = "_IM_"  // Import: 导入声明，负载为导入路径
	Comment     Category = "_COM_" // Comment: 注释，负载为规整后的注释内容
	Variable    Category = "_VAR_" // Variable: 变量声明，负载为声明类型
	Creation    Category = "_OC_"  // Creation: 对象创建，负载为实例化类型
	MethodCall  Category = "_MC_"  // MethodCall: 方法调用，负载为 ownerType.methodName
	UnknownCall Category = "_UMC_" // UnknownCall: 无法解析的方法调用，负载为方法名
)

// Categories 按抽取顺序列出所有类别，位置相同时以此顺序作为稳定排序的依据
var Categories = []Category{Import, Comment, Variable, Creation, MethodCall, UnknownCall}

// TrimCategory 去掉标签中的类别前缀，返回负载部分
func TrimCategory(label string) string {
	for _, c := range Categories {
		if strings.HasPrefix(label, string(c)) {
			return label[len(c):]
		}
	}
	return label
}

// Position 描述了节点首个 token 在 (包装后) 源码中的位置，行列均从 1 开始
type Position struct {
	Line   int `json:"Line"`
	Column int `json:"Column"`
}

// Less 先比较行，再比较列
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.Line, p.Column)
}

// Entry 是抽取阶段的输出单元：(标签, 位置)
type Entry struct {
	Category Category `json:"Category"`
	Label    string   `json:"Label"`
	Position Position `json:"Position"`
}

// NewEntry 以类别前缀和负载拼出标签
func NewEntry(category Category, payload string, pos Position) *Entry {
	return &Entry{
		Category: category,
		Label:    string(category) + payload,
		Position: pos,
	}
}

func (e *Entry) String() string {
	return e.Position.String() + ": " + e.Label
}
