package logimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleADIF = `Generated by test <ADIF_VER:5>3.1.4 <PROGRAMID:4>TEST <EOH>
<CALL:5>OK1AB <QSO_DATE:8>20240105 <TIME_ON:6>123456 <MODE:3>SSB <GRIDSQUARE:6>jn89ab
<MY_GRIDSQUARE:4>JO70 <RST_SENT:2>59 <RST_RCVD:2>57 <STX:3>001 <SRX:3>042
<FREQ:6>14.200 <STATION_CALLSIGN:5>OK2XY <eor>
<mode:3>SSB<eor>
< call : 4 >W1AW <MODE:2>CW < EoR >
<STATION_CALLSIGN:4>OK1K<MODE:3>FT8<EOR>
`

func TestParseADIF(t *testing.T) {
	res := ParseADIF(sampleADIF)

	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Qsos, 3)

	q := res.Qsos[0]
	assert.Equal(t, "OK1AB", q.Call)
	assert.Equal(t, "SSB", q.Mode)
	assert.Equal(t, "2024-01-05", q.Date)
	assert.Equal(t, "12:34", q.Time)
	assert.Equal(t, "JN89AB", q.Locator)
	assert.Equal(t, "JO70", q.MyLocator)
	assert.Equal(t, "59", q.SentReport)
	assert.Equal(t, "001", q.SentCode)
	assert.Equal(t, "57", q.RcvReport)
	assert.Equal(t, "042", q.RcvCode)
	assert.Equal(t, "59 001", q.SentExchangeRaw)
	assert.Equal(t, "57 042", q.RcvExchangeRaw)
	assert.Equal(t, "14.200", q.Frequency)
	assert.Equal(t, "OK2XY", q.MyCall)
	assert.Equal(t, FormatADIF, q.SourceFormat)

	assert.Equal(t, "W1AW", res.Qsos[1].Call)
	assert.Equal(t, "CW", res.Qsos[1].Mode)

	fallback := res.Qsos[2]
	assert.Equal(t, "OK1K", fallback.Call, "STATION_CALLSIGN stands in for a missing CALL")
	assert.Equal(t, "FT8", fallback.Mode)
}

func TestParseADIF_RecordWithoutCallIsDropped(t *testing.T) {
	res := ParseADIF("<mode:3>SSB<eor>")
	assert.Empty(t, res.Qsos)
	assert.Equal(t, 1, res.Skipped)
}

func TestParseADIF_LengthIsNotABound(t *testing.T) {
	res := ParseADIF("<CALL:2>OK1ABC <MODE:1>SSB<EOR>")
	require.Len(t, res.Qsos, 1)
	assert.Equal(t, "OK1ABC", res.Qsos[0].Call)
	assert.Equal(t, "SSB", res.Qsos[0].Mode)
}

func TestParseADIF_TypedTagsAndStringExchange(t *testing.T) {
	res := ParseADIF("<CALL:4:S>DL1A<SRX_STRING:5>JN89A<STX_STRING:3>ABC<GRIDSQUARE:8>jn89ab12<EOR>")
	require.Len(t, res.Qsos, 1)
	q := res.Qsos[0]
	assert.Equal(t, "DL1A", q.Call)
	assert.Equal(t, "JN89A", q.RcvCode)
	assert.Equal(t, "ABC", q.SentCode)
	assert.Equal(t, "JN89AB", q.Locator)
}

func TestParseADIF_BadDateAndTime(t *testing.T) {
	res := ParseADIF("<CALL:4>DL1A<QSO_DATE:8>2024XX05<TIME_ON:3>123<EOR>")
	require.Len(t, res.Qsos, 1)
	assert.Empty(t, res.Qsos[0].Date)
	assert.Empty(t, res.Qsos[0].Time)
}

func TestParseADIF_Garbage(t *testing.T) {
	for _, in := range []string{"", "no tags here", "<EOR><EOR>", "<<<>>>"} {
		assert.NotPanics(t, func() { ParseADIF(in) }, in)
		assert.Empty(t, ParseADIF(in).Qsos, in)
	}
}
