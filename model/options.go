package model

import "fmt"

// 与调用方约定的特殊消息
const (
	StartMessage = "__START__"
	EndMessage   = "__END__"
	ErrorMessage = "__ERROR__"
)

// Mode 决定一次请求走抽取序列还是改写代码
type Mode string

const (
	ModeExtract Mode = "extract"
	ModeRewrite Mode = "rewrite"
)

// ParseMode 校验并返回 Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExtract, ModeRewrite:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, ModeExtract, ModeRewrite)
}

// Options 控制哪些类别参与抽取 / 改写。零值即全部关闭。
type Options struct {
	KeepImports      bool `json:"KeepImports"`      // 抽取 _IM_；改写时保留 package/import
	KeepComments     bool `json:"KeepComments"`     // 抽取 _COM_；改写时保留注释
	KeepDeclarations bool `json:"KeepDeclarations"` // 抽取 _VAR_
	KeepLiterals     bool `json:"KeepLiterals"`     // 改写时保留字面量
	KeepUnknownCalls bool `json:"KeepUnknownCalls"` // 无法解析且无诊断线索的调用输出 _UMC_，否则丢弃
}
