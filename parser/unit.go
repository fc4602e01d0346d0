package parser

import (
	"bytes"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Unit 是某个包装层级下成功解析出的语法树 (ParsedUnit)，只属于当前请求
type Unit struct {
	Language model.Language
	Level    model.WrapLevel
	Tree     *sitter.Tree
	Root     *sitter.Node
	Source   []byte // 包装后的完整源码
	Prefix   int    // 包装前缀字节数，片段从 Source[Prefix] 开始
	Suffix   int    // 包装后缀字节数
}

// Fragment 返回原始片段在包装源码中的字节
func (u *Unit) Fragment() []byte {
	return u.Source[u.Prefix : len(u.Source)-u.Suffix]
}

// FragmentRange 返回片段在包装源码中的 [start, end) 字节区间
func (u *Unit) FragmentRange() (uint, uint) {
	return uint(u.Prefix), uint(len(u.Source) - u.Suffix)
}

// Text 返回节点对应的源码
func (u *Unit) Text(n *sitter.Node) string {
	return NodeText(n, u.Source)
}

// PositionOf 返回节点首个 token 的位置 (行列从 1 开始)
func (u *Unit) PositionOf(n *sitter.Node) model.Position {
	p := n.StartPosition()
	return model.Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// FragmentPosition 返回节点在原始片段 (去掉包装) 中的位置
func (u *Unit) FragmentPosition(n *sitter.Node) model.Position {
	pos := u.PositionOf(n)
	prefix := u.Source[:u.Prefix]
	lines := bytes.Count(prefix, []byte("\n"))
	pos.Line -= lines
	if pos.Line == 1 {
		pos.Column -= len(prefix) - (bytes.LastIndexByte(prefix, '\n') + 1)
	}
	return pos
}

// Close 释放语法树
func (u *Unit) Close() {
	if u.Tree != nil {
		u.Tree.Close()
		u.Tree = nil
		u.Root = nil
	}
}
