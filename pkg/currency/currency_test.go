package currency

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100, "₹100"},
		{500, "₹500"},
		{5.99, "₹5.99"},
		{1234.5, "₹1,234.50"},
		{123456, "₹1,23,456"},
		{1234567.89, "₹12,34,567.89"},
		{0, "₹0"},
		{0.5, "₹0.50"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
