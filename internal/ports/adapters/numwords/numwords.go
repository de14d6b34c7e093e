package numwords

import "strings"

var ones = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var scales = []struct {
	value uint64
	name  string
}{
	{1_000_000_000_000_000_000, "quintillion"},
	{1_000_000_000_000_000, "quadrillion"},
	{1_000_000_000_000, "trillion"},
	{1_000_000_000, "billion"},
	{1_000_000, "million"},
	{1_000, "thousand"},
}

// English spells numbers the way num2words does for "en", minus the commas
// between scale groups.
type English struct{}

func New() English { return English{} }

// Cardinal spells n, e.g. 25 -> "twenty-five", 101 -> "one hundred and one".
func (English) Cardinal(n int64) string {
	if n < 0 {
		return "minus " + cardinal(uint64(-(n+1))+1)
	}
	return cardinal(uint64(n))
}

// Year spells n as a year: 1990 -> "nineteen ninety", 1905 -> "nineteen
// oh-five", 2005 -> "two thousand and five".
func (e English) Year(n int64) string {
	if n < 0 {
		return cardinal(uint64(-(n+1))+1) + " bc"
	}
	high, low := uint64(n)/100, uint64(n)%100
	if high == 0 || (high%10 == 0 && low < 10) || high >= 100 {
		return cardinal(uint64(n))
	}
	var lowText string
	switch {
	case low == 0:
		lowText = "hundred"
	case low < 10:
		lowText = "oh-" + cardinal(low)
	default:
		lowText = cardinal(low)
	}
	return cardinal(high) + " " + lowText
}

func cardinal(n uint64) string {
	if n < 1000 {
		return belowThousand(n)
	}
	var parts []string
	rest := n
	for _, s := range scales {
		if rest < s.value {
			continue
		}
		parts = append(parts, belowThousand(rest/s.value)+" "+s.name)
		rest %= s.value
	}
	if rest > 0 {
		if rest < 100 {
			parts = append(parts, "and")
		}
		parts = append(parts, belowThousand(rest))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n uint64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + "-" + ones[n%10]
	case n%100 == 0:
		return ones[n/100] + " hundred"
	default:
		return ones[n/100] + " hundred and " + belowThousand(n%100)
	}
}
