package document

import "unicode"

// IsIdentRune reports whether r can be part of an identifier.
func IsIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// FindWordAtPos returns the [start, end) character range of the identifier in
// line that contains or touches the text cursor col. The cursor sits between
// characters: col means "before character col". When the cursor is between
// two non-identifier characters the result is the empty range (col, col).
// Indices count characters, not bytes.
func FindWordAtPos(line string, col int) (start, end int) {
	runes := []rune(line)

	if col < 0 {
		col = 0
	}

	if col > len(runes) {
		col = len(runes)
	}

	start = col
	for start > 0 && IsIdentRune(runes[start-1]) {
		start--
	}

	end = col
	for end < len(runes) && IsIdentRune(runes[end]) {
		end++
	}

	return start, end
}

// Words returns the distinct identifiers of text in order of first
// appearance.
func Words(text string) []string {
	var (
		words []string
		seen  = make(map[string]struct{})
		cur   []rune
	)

	flush := func() {
		if len(cur) == 0 {
			return
		}

		w := string(cur)
		cur = cur[:0]

		// Numeric literals are not useful completions.
		if unicode.IsNumber([]rune(w)[0]) {
			return
		}

		if _, ok := seen[w]; ok {
			return
		}

		seen[w] = struct{}{}
		words = append(words, w)
	}

	for _, r := range text {
		if IsIdentRune(r) {
			cur = append(cur, r)
			continue
		}

		flush()
	}

	flush()

	return words
}
