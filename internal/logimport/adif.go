package logimport

import (
	"regexp"
	"strings"
)

var (
	adifEORRe    = regexp.MustCompile(`(?i)<\s*EOR\s*>`)
	adifEOHRe    = regexp.MustCompile(`(?i)<\s*EOH\s*>`)
	adifTagRe    = regexp.MustCompile(`<\s*([^:>\s]+)(?::\s*(\d+))?[^>]*>`)
	adifTimeOnRe = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})?$`)
)

const maxLocatorLen = 6

// ADIFResult is the outcome of ParseADIF.
type ADIFResult struct {
	Qsos    []NormalizedQso
	Skipped int
}

// ParseADIF parses an ADIF (.adi) log. Records end at <EOR>; inside a record
// every <KEY> or <KEY:len[:type]> tag takes the text up to the next '<' as
// its value. The declared length is not used to bound the value.
//
// Records without CALL (or STATION_CALLSIGN) are dropped. A header closed by
// <EOH> is not a record.
func ParseADIF(text string) ADIFResult {
	if loc := adifEOHRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}

	var res ADIFResult
	for _, rec := range adifEORRe.Split(text, -1) {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}

		fields := adifFields(rec)
		call := fields["CALL"]
		if call == "" {
			call = fields["STATION_CALLSIGN"]
		}
		if call == "" {
			res.Skipped++
			continue
		}

		sentCode := firstNonEmpty(fields["STX"], fields["STX_STRING"])
		rcvCode := firstNonEmpty(fields["SRX"], fields["SRX_STRING"])

		res.Qsos = append(res.Qsos, NormalizedQso{
			Call:            call,
			Mode:            fields["MODE"],
			Date:            parseCompactDate(fields["QSO_DATE"]),
			Time:            parseTimeOn(fields["TIME_ON"]),
			Locator:         normalizeGrid(fields["GRIDSQUARE"]),
			MyLocator:       normalizeGrid(fields["MY_GRIDSQUARE"]),
			SentReport:      fields["RST_SENT"],
			SentCode:        sentCode,
			RcvReport:       fields["RST_RCVD"],
			RcvCode:         rcvCode,
			SourceFormat:    FormatADIF,
			MyCall:          strings.ToUpper(firstNonEmpty(fields["STATION_CALLSIGN"], fields["OPERATOR"])),
			Frequency:       fields["FREQ"],
			SentExchangeRaw: joinNonEmpty(fields["RST_SENT"], sentCode),
			RcvExchangeRaw:  joinNonEmpty(fields["RST_RCVD"], rcvCode),
			RawLine:         rec,
		})
	}
	return res
}

// adifFields scans the tags of one record. Later tags overwrite earlier ones.
func adifFields(rec string) map[string]string {
	fields := make(map[string]string)
	for _, m := range adifTagRe.FindAllStringSubmatchIndex(rec, -1) {
		key := strings.ToUpper(strings.TrimSpace(rec[m[2]:m[3]]))
		end := m[1]
		val := rec[end:]
		if next := strings.IndexByte(val, '<'); next >= 0 {
			val = val[:next]
		}
		if key != "" {
			fields[key] = strings.TrimSpace(val)
		}
	}
	return fields
}

// parseTimeOn turns HHMM or HHMMSS into HH:MM.
func parseTimeOn(s string) string {
	m := adifTimeOnRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1] + ":" + m[2]
}

// normalizeGrid uppercases a grid square and drops extended-square pairs
// beyond the subsquare.
func normalizeGrid(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > maxLocatorLen {
		s = s[:maxLocatorLen]
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
