package logimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

var (
	ediSectionRe  = regexp.MustCompile(`^\[(.+)\]$`)
	ediLocatorRe  = regexp.MustCompile(`^LOCATOR\s*=\s*([A-Za-z0-9]+)\s*$`)
	ediCallRe     = regexp.MustCompile(`(?i)^P?CALL\s*=\s*([0-9A-Za-z/]+)\s*$`)
	ediDateRe     = regexp.MustCompile(`^DATE\s*=\s*(\d{8})\s*$`)
	ediTimeRe     = regexp.MustCompile(`^\d{2}:\d{2}$`)
	compactDateRe = regexp.MustCompile(`^\d{8}$`)
	exchangeRe    = regexp.MustCompile(`^(\d{2,3})(?:\s+(.+))?$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// ediMinFields is the number of ';' fields up to the remote locator.
const ediMinFields = 7

// SerialCounter synthesizes the sent contest serial ("001", "002", ...).
// EDI logs rarely carry it, so one number is issued per accepted QSO line.
// The zero value starts at "001"; a counter can be carried across files.
type SerialCounter struct {
	issued int
}

// Next issues the next serial.
func (c *SerialCounter) Next() string {
	c.issued++
	return fmt.Sprintf("%03d", c.issued)
}

// EDIResult is the outcome of ParseEDI.
type EDIResult struct {
	MyCall    string
	MyLocator string
	Qsos      []NormalizedQso
	Skipped   int
}

type exchange struct {
	raw    string
	report string
	code   string
}

// ParseEDI parses an EDI log. [MAIN] supplies the operator call, locator and
// the contest date; every [QSO] line is "time;call;;mode;sent;received;locator;...".
//
// A QSO line is accepted only when its remote locator is a valid 6-character
// target locator. Each accepted line draws a serial from counter, and only
// the first line per remote locator is kept. A nil counter starts at "001".
func ParseEDI(text string, counter *SerialCounter) EDIResult {
	if counter == nil {
		counter = &SerialCounter{}
	}

	var (
		res     EDIResult
		section string
		date    string
		seen    = make(map[string]struct{})
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := ediSectionRe.FindStringSubmatch(line); m != nil {
			section = strings.ToUpper(m[1])
			continue
		}

		switch section {
		case "MAIN":
			if m := ediLocatorRe.FindStringSubmatch(line); m != nil {
				res.MyLocator = strings.ToUpper(m[1])
			}
			if m := ediCallRe.FindStringSubmatch(line); m != nil {
				res.MyCall = strings.ToUpper(m[1])
			}
			if m := ediDateRe.FindStringSubmatch(line); m != nil {
				date = parseCompactDate(m[1])
			}

		case "QSO":
			parts := strings.Split(line, ";")
			if len(parts) < ediMinFields {
				res.Skipped++
				continue
			}

			loc := strings.ToUpper(strings.TrimSpace(parts[6]))
			if !maidenhead.ValidTargetLocator6(loc) {
				res.Skipped++
				continue
			}

			code := counter.Next()
			sent := parseExchange(parts[4])
			rcv := parseExchange(parts[5])

			if _, dup := seen[loc]; dup {
				continue
			}
			seen[loc] = struct{}{}

			t := strings.TrimSpace(parts[0])
			if !ediTimeRe.MatchString(t) {
				t = ""
			}

			res.Qsos = append(res.Qsos, NormalizedQso{
				Call:            strings.ToUpper(strings.TrimSpace(parts[1])),
				Mode:            strings.ToUpper(strings.TrimSpace(parts[3])),
				Date:            date,
				Time:            t,
				Locator:         loc,
				MyLocator:       res.MyLocator,
				SentReport:      sent.report,
				SentCode:        code,
				RcvReport:       rcv.report,
				RcvCode:         rcv.code,
				SourceFormat:    FormatEDI,
				SentExchangeRaw: joinNonEmpty(sent.report, code),
				RcvExchangeRaw:  rcv.raw,
				RawLine:         line,
			})
		}
	}
	return res
}

// parseExchange splits "59 001" into the signal report and the trailing code.
// Anything not starting with a 2-3 digit report is kept only as raw text.
func parseExchange(s string) exchange {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	m := exchangeRe.FindStringSubmatch(s)
	if m == nil {
		return exchange{raw: s}
	}
	return exchange{raw: s, report: m[1], code: m[2]}
}

// parseCompactDate turns YYYYMMDD into YYYY-MM-DD. Returns "" when the year is
// zero, the month is outside 1-12 or the day outside 1-31.
func parseCompactDate(s string) string {
	if !compactDateRe.MatchString(s) {
		return ""
	}
	y, errY := strconv.Atoi(s[0:4])
	m, errM := strconv.Atoi(s[4:6])
	d, errD := strconv.Atoi(s[6:8])
	if errY != nil || errM != nil || errD != nil {
		return ""
	}
	if y == 0 || m < 1 || m > 12 || d < 1 || d > 31 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func normalizeToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
