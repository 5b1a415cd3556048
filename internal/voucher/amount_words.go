package voucher

import (
	"fmt"
	"math"
	"strings"
)

var (
	ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens   = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	scales = []string{"", "Thousand", "Million", "Billion", "Trillion"}
)

// AmountInWords spells an amount the way it is written on a cheque,
// e.g. 123.56 -> "One Hundred Twenty-Three and 56/100"
func AmountInWords(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := cents / 100
	fraction := cents % 100

	words := "Zero"
	if whole > 0 {
		words = integerWords(whole)
	}
	return fmt.Sprintf("%s and %02d/100", words, fraction)
}

func integerWords(n int64) string {
	var groups []string
	for scale := 0; n > 0 && scale < len(scales); scale++ {
		chunk := n % 1000
		n /= 1000
		if chunk == 0 {
			continue
		}
		group := hundredsWords(int(chunk))
		if scales[scale] != "" {
			group += " " + scales[scale]
		}
		groups = append([]string{group}, groups...)
	}
	return strings.Join(groups, " ")
}

func hundredsWords(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		word := tens[n/10]
		if n%10 != 0 {
			word += "-" + ones[n%10]
		}
		parts = append(parts, word)
	case n > 0:
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}
