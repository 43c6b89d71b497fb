// Package document provides utilities for text document manipulation.
package document

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ApplyEdit replaces the text covered by rng with newText and returns the
// updated text. Range positions use LSP's UTF-16 based columns.
func ApplyEdit(text string, rng protocol.Range, newText string) (string, error) {
	lines := strings.Split(text, "\n")

	startLine := int(rng.Start.Line)
	startChar := int(rng.Start.Character)
	endLine := int(rng.End.Line)
	endChar := int(rng.End.Character)

	if startLine >= len(lines) {
		return "", fmt.Errorf("start line %d out of range (0-%d)", startLine, len(lines)-1)
	}

	if endLine >= len(lines) {
		return "", fmt.Errorf("end line %d out of range (0-%d)", endLine, len(lines)-1)
	}

	if startLine > endLine {
		return "", fmt.Errorf("start line %d after end line %d", startLine, endLine)
	}

	startByteOffset, err := utf16CharOffsetToByteOffset(lines[startLine], startChar)
	if err != nil {
		return "", fmt.Errorf("invalid start position: %w", err)
	}

	endByteOffset, err := utf16CharOffsetToByteOffset(lines[endLine], endChar)
	if err != nil {
		return "", fmt.Errorf("invalid end position: %w", err)
	}

	if startLine == endLine && startByteOffset > endByteOffset {
		return "", fmt.Errorf("start character %d after end character %d", startChar, endChar)
	}

	var result strings.Builder

	for i := range startLine {
		result.WriteString(lines[i])
		result.WriteString("\n")
	}

	result.WriteString(lines[startLine][:startByteOffset])
	result.WriteString(newText)
	result.WriteString(lines[endLine][endByteOffset:])

	for i := endLine + 1; i < len(lines); i++ {
		result.WriteString("\n")
		result.WriteString(lines[i])
	}

	return result.String(), nil
}

// RangeLength returns the length of the text covered by rng in UTF-16 code
// units, which is how LSP clients report the deprecated rangeLength field.
func RangeLength(text string, rng protocol.Range) (int, error) {
	start, err := PositionToOffset(text, int(rng.Start.Line), int(rng.Start.Character))
	if err != nil {
		return 0, err
	}

	end, err := PositionToOffset(text, int(rng.End.Line), int(rng.End.Character))
	if err != nil {
		return 0, err
	}

	if end < start {
		return 0, fmt.Errorf("range end %d before start %d", end, start)
	}

	return len(utf16.Encode([]rune(text[start:end]))), nil
}

// PositionToOffset converts a line/character position to a byte offset in the text.
func PositionToOffset(text string, line, character int) (int, error) {
	lines := strings.Split(text, "\n")

	if line < 0 || line >= len(lines) {
		return 0, fmt.Errorf("line %d out of range (0-%d)", line, len(lines)-1)
	}

	offset := 0
	for i := range line {
		offset += len(lines[i]) + 1 // +1 for newline
	}

	byteOffset, err := utf16CharOffsetToByteOffset(lines[line], character)
	if err != nil {
		return 0, err
	}

	return offset + byteOffset, nil
}

// UTF16ToRuneIndex converts a UTF-16 column within line to a character (rune)
// index. Columns past the end of the line are clamped to the line length.
func UTF16ToRuneIndex(line string, utf16Offset int) int {
	if utf16Offset <= 0 {
		return 0
	}

	units := 0
	index := 0

	for _, r := range line {
		if units >= utf16Offset {
			break
		}

		units += utf16.RuneLen(r)
		index++
	}

	return index
}

// utf16CharOffsetToByteOffset converts a UTF-16 character offset (as used by LSP)
// to a UTF-8 byte offset within the given line.
func utf16CharOffsetToByteOffset(line string, utf16Offset int) (int, error) {
	if utf16Offset < 0 {
		return 0, fmt.Errorf("negative UTF-16 offset %d", utf16Offset)
	}

	if utf16Offset == 0 {
		return 0, nil
	}

	utf16Units := utf16.Encode([]rune(line))

	if utf16Offset > len(utf16Units) {
		return 0, fmt.Errorf("UTF-16 offset %d exceeds line length %d", utf16Offset, len(utf16Units))
	}

	if utf16Offset == len(utf16Units) {
		return len(line), nil
	}

	byteOffset := 0
	utf16Count := 0

	for _, r := range line {
		if utf16Count >= utf16Offset {
			break
		}

		// Runes outside the BMP take a surrogate pair.
		if r <= 0xFFFF {
			utf16Count++
		} else {
			utf16Count += 2
		}

		byteOffset += utf8.RuneLen(r)
	}

	return byteOffset, nil
}
