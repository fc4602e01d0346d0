package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// WalkFunc 在遍历每个节点时被调用，返回 false 表示跳过子节点
type WalkFunc func(node *sitter.Node) bool

// Walk 深度优先 (先序) 遍历语法树
func Walk(node *sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText 返回节点的源码内容
func NodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(source)
}

// FindNamedChildOfType 返回第一个指定类型的具名子节点
func FindNamedChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}
