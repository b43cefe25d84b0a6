package text

import "sort"

// 📏 LineIndex maps byte offsets of a buffer to line numbers.
// Lines end at '\n'; a "\r\n" pair stays inside its line.
type LineIndex struct {
	text   string
	starts []int
}

// NewLineIndex records the start offset of every line in text
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineOf returns the 0-based line containing offset
func (idx *LineIndex) LineOf(offset int) int {
	i := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > offset }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// Line returns line i including its terminator, or "" past the end
func (idx *LineIndex) Line(i int) string {
	if i < 0 || i >= len(idx.starts) {
		return ""
	}
	end := len(idx.text)
	if i+1 < len(idx.starts) {
		end = idx.starts[i+1]
	}
	return idx.text[idx.starts[i]:end]
}

// Len is the number of line starts, including the empty one after a final newline
func (idx *LineIndex) Len() int {
	return len(idx.starts)
}
