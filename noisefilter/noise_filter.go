package noisefilter

import (
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// NoiseFilter 判定一个已解析的调用 (owner.method 形式的限定名) 是否应当被静默丢弃。
type NoiseFilter interface {
	IsNoise(qualifiedName string) bool
}

var filters = make(map[model.Language]NoiseFilter)

// RegisterNoiseFilter 注册一个语言与其对应的 NoiseFilter
func RegisterNoiseFilter(lang model.Language, filter NoiseFilter) {
	filters[lang] = filter
}

// GetNoiseFilter 返回语言对应的过滤器；未注册时返回不过滤任何调用的 PassThrough。
func GetNoiseFilter(lang model.Language) NoiseFilter {
	if f, ok := filters[lang]; ok {
		return f
	}
	return PassThrough{}
}

// PassThrough 不丢弃任何调用
type PassThrough struct{}

func (PassThrough) IsNoise(string) bool { return false }

// MethodNames 只按简单方法名过滤，忽略声明类型
type MethodNames map[string]struct{}

func NewMethodNames(names ...string) MethodNames {
	set := make(MethodNames, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (m MethodNames) IsNoise(qualifiedName string) bool {
	_, method := SplitQualifiedName(qualifiedName)
	_, ok := m[method]
	return ok
}

// SplitQualifiedName 以最后一个 '.' 切分出 owner 与方法名；没有 '.' 时 owner 为空。
func SplitQualifiedName(qn string) (owner, method string) {
	if i := strings.LastIndex(qn, "."); i >= 0 {
		return qn[:i], qn[i+1:]
	}
	return "", qn
}
