// Package logimport parses EDI, ADIF and Cabrillo contest logs into
// NormalizedQso records.
//
// All three parsers are tolerant: a line or record that does not fit the
// grammar is skipped and counted, never fatal. The result is whatever valid
// records were found.
package logimport

// Format identifies the log grammar a record came from.
type Format string

const (
	FormatUnknown  Format = ""
	FormatEDI      Format = "edi"
	FormatADIF     Format = "adif"
	FormatCabrillo Format = "cabrillo"
)

// ParseFormat accepts the format names used in message headers and query
// strings. "adi" is an alias for ADIF, "cbr" for Cabrillo.
func ParseFormat(s string) Format {
	switch normalizeToken(s) {
	case "EDI":
		return FormatEDI
	case "ADIF", "ADI":
		return FormatADIF
	case "CABRILLO", "CBR":
		return FormatCabrillo
	default:
		return FormatUnknown
	}
}

// NormalizedQso is one contact in the common shape shared by every format.
// Fields the source format does not carry are left empty.
type NormalizedQso struct {
	Call         string `json:"call"`
	Mode         string `json:"mode,omitempty"`
	Date         string `json:"date,omitempty"` // YYYY-MM-DD
	Time         string `json:"time,omitempty"` // HH:MM
	Locator      string `json:"locator,omitempty"`
	MyLocator    string `json:"my_locator,omitempty"`
	SentReport   string `json:"sent_report,omitempty"`
	SentCode     string `json:"sent_code,omitempty"`
	RcvReport    string `json:"rcv_report,omitempty"`
	RcvCode      string `json:"rcv_code,omitempty"`
	SourceFormat Format `json:"source_format"`

	MyCall          string `json:"my_call,omitempty"`
	Frequency       string `json:"frequency,omitempty"`
	SentExchangeRaw string `json:"sent_exchange_raw,omitempty"`
	RcvExchangeRaw  string `json:"rcv_exchange_raw,omitempty"`
	RawLine         string `json:"raw_line,omitempty"`
}
