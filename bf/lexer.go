/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package bf

// isOperator reports whether r is one of the eight significant code points.
func isOperator(r rune) bool {
	switch r {
	case '+', '-', '<', '>', ',', '.', '[', ']':
		return true
	default:
		return false
	}
}

// lexer exposes a single-character lazy sequence over the significant
// operator set, skipping everything else.
type lexer struct {
	src []rune
	pos int
}

func newLexer(source string) *lexer {
	return &lexer{src: []rune(source)}
}

// next returns the next significant rune and true, or (0, false) at end of
// input. pos is left one past the returned rune.
func (l *lexer) next() (rune, bool) {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		l.pos++
		if isOperator(r) {
			return r, true
		}
	}
	return 0, false
}
