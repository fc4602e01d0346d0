package model

import "fmt"

// WrapLevel 标识为了让片段可解析而套上的外壳
type WrapLevel int

const (
	WrapRaw         WrapLevel = iota // 原样解析，必须是完整的编译单元
	WrapClass                        // 套一层类体
	WrapClassMethod                  // 套类体 + 方法体
)

func (w WrapLevel) String() string {
	switch w {
	case WrapRaw:
		return "RAW"
	case WrapClass:
		return "CLASS"
	case WrapClassMethod:
		return "CLASS+METHOD"
	default:
		return fmt.Sprintf("WrapLevel(%d)", int(w))
	}
}
