package processor

import (
	"sort"
	"strings"

	"github.com/CodMac/go-treesitter-code-tokenizer/model"
)

// SequenceSeparator 是序列中标签之间的分隔符
const SequenceSeparator = ", "

// SortEntries 返回按 (行, 列) 稳定排序后的副本，位置相同的条目保持抽取顺序
func SortEntries(entries []*model.Entry) []*model.Entry {
	sorted := make([]*model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Less(sorted[j].Position)
	})
	return sorted
}

// Sequence 返回排序后的标签
func Sequence(entries []*model.Entry) []string {
	sorted := SortEntries(entries)
	labels := make([]string, len(sorted))
	for i, e := range sorted {
		labels[i] = e.Label
	}
	return labels
}

func JoinSequence(labels []string) string {
	return strings.Join(labels, SequenceSeparator)
}
