package align

// LineWidth returns the column width of line with tabs expanded to
// tabWidth columns. Counting stops at the first newline or at the end of
// the slice; every non-tab byte counts as one column. Columns are raw byte
// counts: multi-byte sequences are not interpreted, which is a documented
// limitation, and the result is wrong for lines wider than the int range.
func LineWidth(line []byte, tabWidth int) int {
	width := 0
	for _, b := range line {
		if b == '\n' {
			break
		}
		if b == '\t' {
			width += tabWidth
		} else {
			width++
		}
	}
	return width
}
