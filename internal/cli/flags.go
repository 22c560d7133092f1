package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for YYYY-MM-DD flags. The zero time means
// the flag was not set.
type dateValue struct {
	t *time.Time
}

func newDateValue(t *time.Time) pflag.Value {
	return &dateValue{t: t}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

func (d *dateValue) Set(s string) error {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	*d.t = parsed.UTC()
	return nil
}

func (d *dateValue) Type() string {
	return "date"
}
