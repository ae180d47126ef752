package logimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		text     string
		want     Format
	}{
		{"edi extension", "contest.EDI", "", FormatEDI},
		{"adi extension", "log.adi", "", FormatADIF},
		{"adif extension", "log.adif", "", FormatADIF},
		{"cbr extension", "log.cbr", "", FormatCabrillo},
		{"reg1test content", "upload.txt", "[REG1TEST;1]\nTName=x", FormatEDI},
		{"qso section content", "", "[MAIN]\n[QSO]\n", FormatEDI},
		{"eor content", "", "<CALL:4>OK1A<eor>", FormatADIF},
		{"eoh content", "", "header <EOH>", FormatADIF},
		{"cabrillo content", "", "START-OF-LOG: 3.0\n", FormatCabrillo},
		{"cabrillo qso line", "", "  qso: 7000 CW", FormatCabrillo},
		{"log extension fallback", "n1mm.log", "nothing useful", FormatCabrillo},
		{"log extension with adif content", "export.log", "<CALL:4>OK1A<EOR>", FormatADIF},
		{"unknown", "notes.txt", "hello", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.text))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatEDI, ParseFormat(" edi "))
	assert.Equal(t, FormatADIF, ParseFormat("ADI"))
	assert.Equal(t, FormatADIF, ParseFormat("adif"))
	assert.Equal(t, FormatCabrillo, ParseFormat("Cabrillo"))
	assert.Equal(t, FormatCabrillo, ParseFormat("cbr"))
	assert.Equal(t, FormatUnknown, ParseFormat("csv"))
}

func TestParse(t *testing.T) {
	t.Run("edi", func(t *testing.T) {
		res, err := Parse(FormatEDI, sampleEDI)
		require.NoError(t, err)
		assert.Equal(t, FormatEDI, res.Format)
		assert.Equal(t, "JO70FD", res.MyLocator)
		assert.Len(t, res.Qsos, 4)
		assert.Equal(t, 2, res.Skipped)
	})

	t.Run("adif", func(t *testing.T) {
		res, err := Parse(FormatADIF, sampleADIF)
		require.NoError(t, err)
		assert.Equal(t, "OK2XY", res.MyCall)
		assert.Equal(t, "JO70", res.MyLocator)
		assert.Len(t, res.Qsos, 3)
	})

	t.Run("cabrillo", func(t *testing.T) {
		res, err := Parse(FormatCabrillo, sampleCabrillo)
		require.NoError(t, err)
		assert.Equal(t, "OK1K", res.MyCall)
		assert.Empty(t, res.MyLocator)
		assert.Len(t, res.Qsos, 3)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Parse(FormatUnknown, "x")
		require.ErrorIs(t, err, ErrUnknownFormat)
	})
}
