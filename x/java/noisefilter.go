package java

import "github.com/CodMac/go-treesitter-code-tokenizer/noisefilter"

// NewJavaNoiseFilter 丢弃控制台打印类调用，不论其声明类型
func NewJavaNoiseFilter() noisefilter.NoiseFilter {
	return noisefilter.NewMethodNames("print", "println", "printStackTrace")
}
