// Package dates renders dates the way the portal displays them: Spanish
// long form, e.g. "15 de Noviembre, 2024". These strings are also the
// idempotence key of the seniority accrual (one grant per calendar day),
// so the format must stay stable.
package dates

import (
	"fmt"
	"time"
)

var months = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Format renders t as a Spanish long-form date string.
func Format(t time.Time) string {
	return fmt.Sprintf("%d de %s, %d", t.Day(), months[t.Month()-1], t.Year())
}

// Today returns the current date in local time, formatted.
func Today() string {
	return Format(time.Now())
}
