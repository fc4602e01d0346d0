package java

import (
	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// compilationUnitKinds 是编译单元顶层允许出现的具名节点
var compilationUnitKinds = map[string]bool{
	KindPackageDeclaration:    true,
	KindImportDeclaration:     true,
	KindClassDeclaration:      true,
	KindInterfaceDeclaration:  true,
	KindEnumDeclaration:       true,
	KindRecordDeclaration:     true,
	KindAnnotationDeclaration: true,
	KindModuleDeclaration:     true,
	KindLineComment:           true,
	KindBlockComment:          true,
}

// UnitValidator 要求包装后的源码是一个真正的编译单元。
// tree-sitter-java 在顶层也接受语句，不加限制时裸语句会在 RAW 层级被接受。
type UnitValidator struct{}

func NewJavaUnitValidator() *UnitValidator {
	return &UnitValidator{}
}

func (v *UnitValidator) Accept(root *sitter.Node, _ model.WrapLevel) bool {
	if root == nil || root.Kind() != KindProgram {
		return false
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil || !compilationUnitKinds[child.Kind()] {
			return false
		}
	}
	return true
}
