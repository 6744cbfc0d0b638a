package farecalc

import (
	"math"
	"strconv"
)

// Epsilon is the tolerance for money comparisons.
const Epsilon = 1e-4

// NUC is the Neutral Unit of Construction currency code. NUC amounts always
// carry two decimals.
const NUC = "NUC"

// fcToLongInt scales amount to an integer at the requested decimal
// precision, rounding half away from zero. fcToLongInt(12.345, 2) == 1235.
func fcToLongInt(amount float64, noDec int) int64 {
	scaled := amount * math.Pow10(noDec)
	if scaled >= 0 {
		return int64(math.Floor(scaled + 0.5))
	}
	return int64(math.Ceil(scaled - 0.5))
}

// formatAmount renders a money amount with a fixed number of decimals.
func formatAmount(amount float64, noDec int) string {
	return strconv.FormatFloat(amount, 'f', noDec, 64)
}

// padAmount right-justifies a formatted amount in a field of the given
// width. The formatted value is returned unpadded when wider than the field.
func padAmount(amount float64, noDec, width int) string {
	s := formatAmount(amount, noDec)
	for len(s) < width {
		s = " " + s
	}
	return s
}

// padLeft right-justifies text in a field of the given width.
func padLeft(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}

// padRight left-justifies text in a field of the given width.
func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}

// currencyNoDec returns the decimal count of a currency, defaulting to 2
// when the currency is unknown.
func currencyNoDec(currency string) int {
	switch currency {
	case "JPY", "KRW", "VND", "IDR", "CLP", "ISK", "XPF":
		return 0
	case "BHD", "KWD", "OMR", "JOD", "TND", "IQD", "LYD":
		return 3
	default:
		return 2
	}
}

// amountWidth returns the printed width of an amount excluding any currency
// code, used for field-length overflow checks.
func amountWidth(amount float64, noDec int) int {
	return len(formatAmount(amount, noDec))
}
