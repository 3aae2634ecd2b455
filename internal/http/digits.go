package http

import "strings"

// digitRunes maps Persian (U+06F0..U+06F9) and Arabic-Indic (U+0660..U+0669)
// digits to their ASCII value, and localized decimal separators to '.'.
// Frontends in fa-IR locales submit numerals in these forms; the ledger core
// only ever sees the canonical representation.
var digitRunes = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
	'٫': '.', ',': '.',
}

// normalizeDigits converts localized numeral input to canonical ASCII form.
// Grouping marks (U+066C, U+200C) are dropped.
func normalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.TrimSpace(s) {
		if r == '٬' || r == '‌' {
			continue
		}
		if mapped, ok := digitRunes[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
