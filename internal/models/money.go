package models

import "fmt"

// FormatMoney renders minor units as "<symbol> 1234.56"
func FormatMoney(symbol string, cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", symbol, sign, cents/100, cents%100)
}
