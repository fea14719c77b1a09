package book

import "strings"

// NormalizeISBN coerces scanner input to a 13-digit ISBN.
// It accepts ISBN-13 (with or without a valid check digit), ISBN-10,
// 9-digit SBNs, and any of those with separators or whitespace mixed in.
// Returns "" when the input cannot be coerced.
func NormalizeISBN(value string) string {
	var b strings.Builder
	for _, ch := range value {
		switch {
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == 'x' || ch == 'X':
			b.WriteRune('X')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}
	return coerceISBN13(cleaned)
}

func coerceISBN13(cleaned string) string {
	switch len(cleaned) {
	case 13:
		if !allDigits(cleaned) {
			return ""
		}
		if isbn13CheckDigit(cleaned[:12]) == cleaned[12] {
			return cleaned
		}
		// Tolerate a corrupted check digit; the scanner already gave us 12
		// good digits.
		return cleaned[:12] + string(isbn13CheckDigit(cleaned[:12]))
	case 12:
		if !allDigits(cleaned) {
			return ""
		}
		return cleaned + string(isbn13CheckDigit(cleaned))
	case 10:
		core := cleaned[:9]
		if !allDigits(core) {
			return ""
		}
		return isbn10ToISBN13(core + string(isbn10CheckDigit(core)))
	case 9:
		// Pre-1974 SBN: a 9-digit body, or 8 digits plus its own check digit.
		if allDigits(cleaned) {
			return isbn10ToISBN13(cleaned + string(isbn10CheckDigit(cleaned)))
		}
		if allDigits(cleaned[:8]) && cleaned[8] == 'X' {
			prefixed := "0" + cleaned[:8]
			if isbn10CheckDigit(prefixed) == 'X' {
				return isbn10ToISBN13(prefixed + "X")
			}
		}
		return ""
	default:
		return ""
	}
}

func isbn10ToISBN13(isbn10 string) string {
	prefix := "978" + isbn10[:9]
	return prefix + string(isbn13CheckDigit(prefix))
}

func isbn13CheckDigit(prefix string) byte {
	total := 0
	for i := 0; i < len(prefix); i++ {
		d := int(prefix[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		total += d
	}
	return byte('0' + (10-total%10)%10)
}

func isbn10CheckDigit(core string) byte {
	total := 0
	for i := 0; i < 9; i++ {
		total += (10 - i) * int(core[i]-'0')
	}
	rem := (11 - total%11) % 11
	if rem == 10 {
		return 'X'
	}
	return byte('0' + rem)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
