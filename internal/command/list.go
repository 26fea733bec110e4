package command

import (
	"time"

	"github.com/dustin/go-humanize"
)

// age renders a wire-format UTC datetime as a relative age for list output.
// Unparseable values come back as-is.
func age(datetime string) string {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", datetime, time.UTC)
	if err != nil {
		return datetime
	}
	return humanize.Time(t)
}

// originTag marks radio-heard records in list output; relay records are the
// common case and stay unmarked.
func originTag(origin string) string {
	if origin == "radio" {
		return " [radio]"
	}
	return ""
}
