package valueobject

import (
	"strings"
	"unicode"
)

// Brazilian taxpayer documents. Clients are companies (CNPJ, 14 digits) but
// small workshops are often registered with a CPF (11 digits).
const (
	cnpjLength = 14
	cpfLength  = 11
)

// DigitsOnly strips everything but ASCII digits
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidDocumentShape reports whether s holds a CNPJ or CPF worth of digits,
// ignoring punctuation. Check digits are not verified here.
func ValidDocumentShape(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && !strings.ContainsRune("./- ", r) {
			return false
		}
	}
	n := len(DigitsOnly(s))
	return n == cnpjLength || n == cpfLength
}

// FormatDocument renders a CNPJ as 00.000.000/0000-00 or a CPF as
// 000.000.000-00. Inputs of any other length are returned trimmed.
func FormatDocument(s string) string {
	d := DigitsOnly(s)
	switch len(d) {
	case cnpjLength:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	case cpfLength:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	default:
		return strings.TrimSpace(s)
	}
}

// DocumentCheckDigitsValid verifies the modulo-11 check digits of a CNPJ or CPF
func DocumentCheckDigitsValid(s string) bool {
	d := DigitsOnly(s)
	switch len(d) {
	case cnpjLength:
		if allSame(d) {
			return false
		}
		w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
		w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
		return checkDigit(d[:12], w1) == int(d[12]-'0') &&
			checkDigit(d[:13], w2) == int(d[13]-'0')
	case cpfLength:
		if allSame(d) {
			return false
		}
		w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
		w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
		return checkDigit(d[:9], w1) == int(d[9]-'0') &&
			checkDigit(d[:10], w2) == int(d[10]-'0')
	}
	return false
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSame(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

// states lists the 27 federative units
var states = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true, "DF": true,
	"ES": true, "GO": true, "MA": true, "MT": true, "MS": true, "MG": true, "PA": true,
	"PB": true, "PR": true, "PE": true, "PI": true, "RJ": true, "RN": true, "RS": true,
	"RO": true, "RR": true, "SC": true, "SP": true, "SE": true, "TO": true,
}

// ValidState reports whether uf is a Brazilian state abbreviation (case-insensitive)
func ValidState(uf string) bool {
	return states[strings.ToUpper(strings.TrimSpace(uf))]
}
