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
package debug

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ValidateUTF8 rejects source text that is not well-formed UTF-8 (a leading
// BOM is accepted), so a human pasting text into the debugger gets a
// clear error instead of silently-garbled lexing.
func ValidateUTF8(source string) error {
	decoder := unicode.UTF8.NewDecoder()
	// The decoder replaces ill-formed bytes with U+FFFD instead of failing,
	// so any difference between input and output marks invalid UTF-8.
	decoded, _, err := transform.String(decoder, source)
	if err == nil && decoded != source {
		err = errors.New("ill-formed byte sequence")
	}
	if err != nil {
		return fmt.Errorf("bf: debug: source is not valid UTF-8: %w", err)
	}
	return nil
}
