// Package translate formats user facing messages in the caller's locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// DefaultLocale is used when the host reports no locale.
const DefaultLocale = "en-US"

func loadPrinter() {
	locales, err := locale.GetLocales()
	if err != nil {
		logrus.Debugf("cpu230: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(loadPrinter)
	return printer.Sprintf(key, args...)
}
