package util

// Byte level helpers shared by the jack and vm scanners. Sources are plain
// ASCII, so everything here works on single bytes.

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsNewLine reports whether b ends a source line. A "\r\n" pair is counted
// once because only the '\n' matches.
func IsNewLine(b byte) bool {
	return b == '\n'
}

// CountNewLines returns how many source lines the given text spans past its
// first one.
func CountNewLines(text string) int {
	ret := 0
	for i := 0; i < len(text); i++ {
		if IsNewLine(text[i]) {
			ret++
		}
	}
	return ret
}

// RestOfLine returns text from pos up to (not including) the next line break.
func RestOfLine(text string, pos int) string {
	end := pos
	for end < len(text) && text[end] != '\n' && text[end] != '\r' {
		end++
	}
	return text[pos:end]
}
