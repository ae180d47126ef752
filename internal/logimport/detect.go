package logimport

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnknownFormat is returned by Parse for formats it cannot dispatch.
var ErrUnknownFormat = errors.New("unknown log format")

var cabrilloLineRe = regexp.MustCompile(`(?im)^\s*(START-OF-LOG:|QSO:)`)

// Result is a parsed log of any format.
type Result struct {
	Format    Format          `json:"format"`
	MyLocator string          `json:"my_locator,omitempty"`
	MyCall    string          `json:"my_call,omitempty"`
	Qsos      []NormalizedQso `json:"qsos"`
	Skipped   int             `json:"skipped"`
}

// DetectFormat guesses the format of a log from its file name, then from its
// content. It returns FormatUnknown when neither gives a hint.
func DetectFormat(name, text string) Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	switch ext {
	case ".edi":
		return FormatEDI
	case ".adi", ".adif":
		return FormatADIF
	case ".cbr", ".cabrillo":
		return FormatCabrillo
	}

	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "[REG1TEST") || strings.Contains(upper, "[QSO]"):
		return FormatEDI
	case adifEORRe.MatchString(text) || adifEOHRe.MatchString(text):
		return FormatADIF
	case cabrilloLineRe.MatchString(text):
		return FormatCabrillo
	}

	// Contest loggers name Cabrillo output *.log.
	if ext == ".log" {
		return FormatCabrillo
	}
	return FormatUnknown
}

// Parse runs the parser for format. EDI serials start at "001".
func Parse(format Format, text string) (Result, error) {
	switch format {
	case FormatEDI:
		r := ParseEDI(text, nil)
		return Result{Format: format, MyCall: r.MyCall, MyLocator: r.MyLocator, Qsos: r.Qsos, Skipped: r.Skipped}, nil

	case FormatADIF:
		r := ParseADIF(text)
		res := Result{Format: format, Qsos: r.Qsos, Skipped: r.Skipped}
		for _, q := range r.Qsos {
			if res.MyCall == "" {
				res.MyCall = q.MyCall
			}
			if res.MyLocator == "" {
				res.MyLocator = q.MyLocator
			}
		}
		return res, nil

	case FormatCabrillo:
		r := ParseCabrillo(text)
		res := Result{Format: format, MyCall: r.MyCall, Qsos: r.Qsos, Skipped: r.Skipped}
		for _, q := range r.Qsos {
			if q.MyLocator != "" {
				res.MyLocator = q.MyLocator
				break
			}
		}
		return res, nil

	default:
		return Result{}, fmt.Errorf("parse %q: %w", format, ErrUnknownFormat)
	}
}
