package analytics

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the locale month labels are rendered in.
const DefaultLocale = "pt-BR"

// Labeler renders a display label for a calendar month.
type Labeler interface {
	Label(year int, month time.Month) string
}

const monthYearKey = "analytics.month_year"

var monthKeys = [12]string{ //nolint:gochecknoglobals // catalog keys
	"analytics.month.jan", "analytics.month.feb", "analytics.month.mar",
	"analytics.month.apr", "analytics.month.may", "analytics.month.jun",
	"analytics.month.jul", "analytics.month.aug", "analytics.month.sep",
	"analytics.month.oct", "analytics.month.nov", "analytics.month.dec",
}

//nolint:gochecknoglobals // catalog contents
var catalog = map[language.Tag]struct {
	months    [12]string
	monthYear string
}{
	language.BrazilianPortuguese: {
		months:    [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
		monthYear: "%s/%s",
	},
	language.English: {
		months:    [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		monthYear: "%s %s",
	},
}

var matcher = language.NewMatcher([]language.Tag{ //nolint:gochecknoglobals // built once
	language.BrazilianPortuguese,
	language.English,
})

func init() { //nolint:gochecknoinits // registers the month catalog with x/text/message
	for tag, entry := range catalog {
		for i, key := range monthKeys {
			_ = message.SetString(tag, key, entry.months[i])
		}
		_ = message.SetString(tag, monthYearKey, entry.monthYear)
	}
}

// MonthLabeler renders labels such as "jan/2026" (pt-BR) or "Jan 2026" (en).
type MonthLabeler struct {
	printer *message.Printer
	tag     language.Tag
}

// NewMonthLabeler matches locale against the supported catalogs; unknown or
// malformed locales fall back to pt-BR.
func NewMonthLabeler(locale string) *MonthLabeler {
	tag := language.BrazilianPortuguese
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No && idx == 1 {
			tag = language.English
		}
	}
	return &MonthLabeler{printer: message.NewPrinter(tag), tag: tag}
}

// Locale returns the matched catalog tag.
func (l *MonthLabeler) Locale() string { return l.tag.String() }

// Label implements Labeler.
func (l *MonthLabeler) Label(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	name := l.printer.Sprintf(monthKeys[month-1])
	// Years go through as strings; the printer would group their digits.
	return l.printer.Sprintf(monthYearKey, name, strconv.Itoa(year))
}
