package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/recallbot/internal/core"
)

var (
	// h[:m] am|pm, hour 1-12, minute 0-59 with one or two digits
	clockTime    = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))? (am|pm)$`)
	bareMeridiem = regexp.MustCompile(`(\S)(am|pm)$`)
)

// TimeParser turns "8:30pm tomorrow" style expressions into a wall-clock
// time in a fixed reference location.
type TimeParser struct {
	loc *time.Location
	now func() time.Time
}

func NewTimeParser(loc *time.Location, now func() time.Time) *TimeParser {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TimeParser{loc: loc, now: now}
}

// Parse returns the canonical "YYYY-MM-DD HH:MM:SS" form, or false when
// no layout matches.
func (p *TimeParser) Parse(expr string) (string, bool) {
	v, err := p.Resolve(expr)
	return v, err == nil
}

// Resolve is Parse with the failure wrapped in core.ErrIntentParse.
func (p *TimeParser) Resolve(expr string) (string, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expr), ".", ""))
	if s == "" {
		return "", fmt.Errorf("%w: empty time expression", core.ErrIntentParse)
	}

	offset := 0
	if strings.Contains(s, "tomorrow") {
		offset = 1
		s = strings.ReplaceAll(s, "tomorrow", "")
	} else if strings.Contains(s, "today") {
		s = strings.ReplaceAll(s, "today", "")
	}
	s = strings.Join(strings.Fields(s), " ")
	s = bareMeridiem.ReplaceAllString(s, "$1 $2")

	hour, minute, ok := parseClock(s)
	if !ok {
		return "", fmt.Errorf("%w: unrecognized time %q", core.ErrIntentParse, expr)
	}
	today := p.now().In(p.loc)
	at := time.Date(today.Year(), today.Month(), today.Day()+offset, hour, minute, 0, 0, p.loc)
	return at.Format(core.DateTimeLayout), nil
}

// parseClock reads a 12-hour clock reading into 24-hour fields.
func parseClock(s string) (hour, minute int, ok bool) {
	m := clockTime.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, false
	}
	hour %= 12
	if m[3] == "pm" {
		hour += 12
	}
	return hour, minute, true
}

// Now returns the current time in the reference location, formatted.
func (p *TimeParser) Now() string {
	return p.now().In(p.loc).Format(core.DateTimeLayout)
}

// ParseOrNow falls back to the current time for unparseable input.
func (p *TimeParser) ParseOrNow(expr string) string {
	if v, ok := p.Parse(expr); ok {
		return v
	}
	return p.Now()
}
