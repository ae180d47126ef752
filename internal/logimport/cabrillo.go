package logimport

import (
	"regexp"
	"strings"

	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

var (
	cabrilloCallRe = regexp.MustCompile(`^[0-9A-Z/]{3,}$`)
	cabrilloTimeRe = regexp.MustCompile(`^(\d{2})(\d{2})$`)
)

// Token positions on a QSO: line, counting "QSO:" as 0.
const (
	cabFreq = 1 + iota
	cabMode
	cabDate
	cabTime
	cabMyCall
	cabSentRST
	cabSentExch
	cabCall
	cabRcvRST
	cabRcvExch

	cabMinTokens = cabCall + 1
)

// CabrilloResult is the outcome of ParseCabrillo.
type CabrilloResult struct {
	MyCall  string
	Qsos    []NormalizedQso
	Skipped int
}

// ParseCabrillo parses the QSO: lines of a Cabrillo log:
//
//	QSO: 21259 PH 2013-07-27 1336 OK1K    59 0006 EI9HX    59 0092
//
// Lines with fewer than 9 tokens, or whose remote call does not look like a
// callsign, are skipped. MyCall comes from the first QSO: line that has one,
// even if that line is later rejected.
func ParseCabrillo(text string) CabrilloResult {
	var res CabrilloResult

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		tokens := strings.Fields(line)
		if len(tokens) == 0 || !strings.EqualFold(tokens[0], "QSO:") {
			continue
		}
		if len(tokens) < cabMinTokens {
			res.Skipped++
			continue
		}

		myCall := strings.ToUpper(tokens[cabMyCall])
		if res.MyCall == "" {
			res.MyCall = myCall
		}

		call := strings.ToUpper(tokens[cabCall])
		if !cabrilloCallRe.MatchString(call) {
			res.Skipped++
			continue
		}

		sent := tokens[cabSentRST:cabCall]
		rcv := tokens[cabCall+1:]

		q := NormalizedQso{
			Call:            call,
			Mode:            tokens[cabMode],
			Date:            tokens[cabDate],
			Time:            cabrilloTime(tokens[cabTime]),
			SourceFormat:    FormatCabrillo,
			MyCall:          myCall,
			Frequency:       tokens[cabFreq],
			SentReport:      tokens[cabSentRST],
			SentCode:        tokens[cabSentExch],
			SentExchangeRaw: strings.Join(sent, " "),
			RcvExchangeRaw:  strings.Join(rcv, " "),
			RawLine:         line,
		}
		if len(tokens) > cabRcvRST {
			q.RcvReport = tokens[cabRcvRST]
		}
		if len(tokens) > cabRcvExch {
			q.RcvCode = tokens[cabRcvExch]
		}
		// VHF contests put grid squares in the exchange.
		q.MyLocator = findLocator(sent)
		q.Locator = findLocator(rcv)

		res.Qsos = append(res.Qsos, q)
	}
	return res
}

func cabrilloTime(s string) string {
	if m := cabrilloTimeRe.FindStringSubmatch(s); m != nil {
		return m[1] + ":" + m[2]
	}
	return s
}

func findLocator(tokens []string) string {
	for _, t := range tokens {
		if u := strings.ToUpper(t); maidenhead.ValidTargetLocator6(u) {
			return u
		}
	}
	return ""
}
