package types

import "unicode/utf8"

// ComputeColumn computes the 1-based rune column of a byte offset in a line.
// Offsets past the end of the line clamp to one past the last rune.
func ComputeColumn(line string, byteOffset int) int {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	if byteOffset < 0 {
		byteOffset = 0
	}
	return utf8.RuneCountInString(line[:byteOffset]) + 1
}
