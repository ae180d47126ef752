package logimport

// ModeClass groups operating modes the way the map layers split contacts.
type ModeClass string

const (
	ModeUnknown ModeClass = "unknown"
	ModeCW      ModeClass = "cw"
	ModePhone   ModeClass = "phone"
	ModeDigital ModeClass = "digital"
)

// Exact names only: "CWR" or "CW-R" fall through to unknown.
var modeClasses = map[string]ModeClass{
	"CW": ModeCW,

	"SSB":   ModePhone,
	"USB":   ModePhone,
	"LSB":   ModePhone,
	"AM":    ModePhone,
	"FM":    ModePhone,
	"PH":    ModePhone,
	"PHONE": ModePhone,

	"RY":     ModeDigital,
	"DG":     ModeDigital,
	"DIGI":   ModeDigital,
	"DATA":   ModeDigital,
	"RTTY":   ModeDigital,
	"FT8":    ModeDigital,
	"FT4":    ModeDigital,
	"JT65":   ModeDigital,
	"JT9":    ModeDigital,
	"PSK":    ModeDigital,
	"PSK31":  ModeDigital,
	"PSK63":  ModeDigital,
	"PSK125": ModeDigital,
	"MFSK":   ModeDigital,
	"OLIVIA": ModeDigital,
	"MSK144": ModeDigital,
	"Q65":    ModeDigital,
	"SSTV":   ModeDigital,
}

// ClassifyMode maps a log's mode field to its class, ignoring case.
func ClassifyMode(mode string) ModeClass {
	if c, ok := modeClasses[normalizeToken(mode)]; ok {
		return c
	}
	return ModeUnknown
}
