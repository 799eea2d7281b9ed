package renderer

import (
	"bytes"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// USD formats v as a dollar amount, rounded to the cent.
func USD(v decimal.Decimal) string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, money.USD).Currency()
	cents := v.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// SignedUSD is USD with an explicit sign, zero is represented as "-".
func SignedUSD(v decimal.Decimal) string {
	switch {
	case v.IsZero():
		return "-"
	case v.IsPositive():
		return "+" + USD(v)
	}
	return USD(v)
}

// Percent formats a ratio as a signed percentage with two decimals.
func Percent(r decimal.Decimal) string {
	return r.Shift(2).StringFixed(2) + "%"
}
