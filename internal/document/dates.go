package document

import (
	"fmt"
	"time"
)

// Japanese era boundaries, most recent first. The Rirekisho date line renders
// in the era calendar; anything before Showa is out of scope for a living
// applicant.
var eras = []struct {
	name  string
	start int // first Gregorian year of the era
}{
	{"令和", 2019},
	{"平成", 1989},
	{"昭和", 1926},
}

// JapaneseDate formats a date as an era-calendar string, e.g. 令和6年4月1日.
// The first year of an era renders as 元年, not 1年.
func JapaneseDate(t time.Time) string {
	year := t.Year()
	for _, era := range eras {
		if year < era.start {
			continue
		}
		eraYear := year - era.start + 1
		yearLabel := fmt.Sprintf("%d", eraYear)
		if eraYear == 1 {
			yearLabel = "元"
		}
		return fmt.Sprintf("%s%s年%d月%d日", era.name, yearLabel, int(t.Month()), t.Day())
	}
	return fmt.Sprintf("%d年%d月%d日", year, int(t.Month()), t.Day())
}
