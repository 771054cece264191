package screen

import "github.com/unilibs/uniwidth"

// runeWidth returns the number of columns r occupies: 2 for wide characters (CJK, emoji),
// 1 for normal ones, 0 for combining marks.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// StringWidth returns the display width of str.
func StringWidth(str string) int {
	return uniwidth.StringWidth(str)
}
