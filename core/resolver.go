package core

import (
	"fmt"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// --- 语言特有的符号解析接口 ---

type SymbolResolver interface {
	// BuildQualifiedName 根据父节点和当前名构建 QN (Java 用 ".")
	BuildQualifiedName(parentQN, name string) string

	// ResolveCall 解析方法调用节点，返回 "声明类型全限定名.方法名"。
	// 失败时返回 *ResolutionError，其消息即诊断文本。
	ResolveCall(gc *GlobalContext, fc *FileContext, call *sitter.Node) (string, error)
}

var symbolResolverMap = make(map[model.Language]SymbolResolver)

// RegisterSymbolResolver 注册一个语言与其对应的 SymbolResolver
func RegisterSymbolResolver(lang model.Language, resolver SymbolResolver) {
	symbolResolverMap[lang] = resolver
}

// GetSymbolResolver 根据语言类型获取对应的 SymbolResolver 实例
func GetSymbolResolver(lang model.Language) (SymbolResolver, error) {
	resolver, ok := symbolResolverMap[lang]
	if !ok {
		return nil, fmt.Errorf("no SymbolResolver for language: %s", lang)
	}

	return resolver, nil
}

// --- 诊断格式 ---

// DiagnosticFormatVersion 标识诊断文本的格式。
// 版本 1: 未解析符号为 "unsolved symbol in <context> : <name>"，<context> 不含冒号；其余失败的消息不含冒号。
// 修改格式必须提升版本并同步修改 ParseUnsolvedOwner。
const DiagnosticFormatVersion = 1

// ResolutionError 是 ResolveCall 的失败结果
type ResolutionError struct {
	Context string // 未解析符号所在的上下文，仅 Unsolved 使用
	Symbol  string // 未解析的符号
	Reason  string
}

func (e *ResolutionError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("unsolved symbol in %s : %s", e.Context, e.Symbol)
	}
	return e.Reason
}

// Unsolved 构造未解析符号错误
func Unsolved(context, symbol string) *ResolutionError {
	context = strings.ReplaceAll(context, ":", " ")
	if context == "" {
		context = "fragment"
	}
	return &ResolutionError{Context: context, Symbol: strings.ReplaceAll(symbol, ":", "")}
}

// Unsupported 构造不含冒号的普通失败
func Unsupported(format string, args ...any) *ResolutionError {
	return &ResolutionError{Reason: strings.ReplaceAll(fmt.Sprintf(format, args...), ":", " ")}
}

// ParseUnsolvedOwner 从诊断文本中提取所属类型提示。
// 去掉所有空白后按冒号切分，恰好两段且第二段非空时返回第二段。
func ParseUnsolvedOwner(diagnostic string) (string, bool) {
	compact := strings.Join(strings.Fields(diagnostic), "")
	parts := strings.Split(compact, ":")
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
