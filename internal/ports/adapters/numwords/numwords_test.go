package numwords

import "testing"

func TestCardinal(t *testing.T) {
	tests := map[int64]string{
		0:          "zero",
		7:          "seven",
		19:         "nineteen",
		25:         "twenty-five",
		40:         "forty",
		100:        "one hundred",
		101:        "one hundred and one",
		999:        "nine hundred and ninety-nine",
		1000:       "one thousand",
		1001:       "one thousand and one",
		1234:       "one thousand two hundred and thirty-four",
		2000000:    "two million",
		1000005:    "one million and five",
		3000400000: "three billion four hundred thousand",
		-12:        "minus twelve",
	}
	sp := New()
	for in, want := range tests {
		if got := sp.Cardinal(in); got != want {
			t.Fatalf("Cardinal(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestYear(t *testing.T) {
	tests := map[int64]string{
		1990: "nineteen ninety",
		1900: "nineteen hundred",
		1905: "nineteen oh-five",
		2000: "two thousand",
		2005: "two thousand and five",
		2010: "twenty ten",
		2023: "twenty twenty-three",
		42:   "forty-two",
		1066: "ten sixty-six",
	}
	sp := New()
	for in, want := range tests {
		if got := sp.Year(in); got != want {
			t.Fatalf("Year(%d) = %q, want %q", in, got, want)
		}
	}
}
