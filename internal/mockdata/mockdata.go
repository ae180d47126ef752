// Package mockdata generates deterministic sample logs and a DXCC table for
// tests, demos and the genmock command.
//
// Every generated log holds the same ten contacts plus one malformed entry
// that the parsers must skip.
package mockdata

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/hamgrid/internal/dxcc"
)

// Home station used by all generated logs.
const (
	MyCall    = "OK1KHL"
	MyLocator = "JO70FD"
)

// ContestDate is the date stamped on every generated contact.
var ContestDate = time.Date(2024, time.July, 6, 7, 0, 0, 0, time.UTC)

// Contact is one worked station.
type Contact struct {
	Call    string
	Locator string
	Mode    string // SSB, CW or FM
	Entity  int    // expected DXCC entity code
}

// Contacts lists the stations worked in every generated log, in log order.
var Contacts = []Contact{
	{Call: "OK2BSP", Locator: "JN99AK", Mode: "SSB", Entity: 503},
	{Call: "OM3KII", Locator: "JN88NF", Mode: "CW", Entity: 504},
	{Call: "DL0GTH", Locator: "JO50WO", Mode: "SSB", Entity: 230},
	{Call: "SP6KBL", Locator: "JO80PB", Mode: "CW", Entity: 269},
	{Call: "HA1KSA", Locator: "JN87FN", Mode: "SSB", Entity: 239},
	{Call: "S59DEM", Locator: "JN76TO", Mode: "FM", Entity: 499},
	{Call: "OE3XUA", Locator: "JN78SB", Mode: "CW", Entity: 206},
	{Call: "9A1CAL", Locator: "JN75ES", Mode: "SSB", Entity: 497},
	{Call: "YU1EV", Locator: "KN04FR", Mode: "CW", Entity: 296},
	{Call: "G4ABC", Locator: "IO91WM", Mode: "SSB", Entity: 223},
}

// Entities is the DXCC table matching Contacts, with one deleted entity that
// shares prefixes with a current one.
var Entities = []dxcc.Entity{
	{EntityCode: 503, Name: "Czech Republic", Prefix: "OK,OL"},
	{EntityCode: 504, Name: "Slovak Republic", Prefix: "OM"},
	{EntityCode: 218, Name: "Czechoslovakia", Prefix: "OK,OL,OM", Deleted: true},
	{EntityCode: 230, Name: "Fed. Rep. of Germany", Prefix: "DA,DB,DC,DD,DE,DF,DG,DH,DJ,DK,DL,DM,DN,DO,DP,DQ,DR"},
	{EntityCode: 269, Name: "Poland", Prefix: "SN,SO,SP,SQ,SR,3Z,HF"},
	{EntityCode: 239, Name: "Hungary", Prefix: "HA,HG"},
	{EntityCode: 499, Name: "Slovenia", Prefix: "S5"},
	{EntityCode: 206, Name: "Austria", Prefix: "OE"},
	{EntityCode: 497, Name: "Croatia", Prefix: "9A"},
	{EntityCode: 296, Name: "Serbia", Prefix: "YT,YU"},
	{EntityCode: 223, Name: "England", Prefix: "G,M,2E"},
}

// DXCCTable renders Entities as a {"dxcc": [...]} document.
func DXCCTable() ([]byte, error) {
	doc := struct {
		DXCC []dxcc.Entity `json:"dxcc"`
	}{DXCC: Entities}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal dxcc table: %w", err)
	}
	return data, nil
}

// EDI renders the contacts as an EDI log. The last QSO line has an invalid
// locator.
func EDI() string {
	var b strings.Builder
	b.WriteString("[MAIN]\n")
	fmt.Fprintf(&b, "CALL=%s\n", MyCall)
	fmt.Fprintf(&b, "LOCATOR=%s\n", MyLocator)
	fmt.Fprintf(&b, "DATE=%s\n", ContestDate.Format("20060102"))
	b.WriteString("[QSO]\n")
	for i, c := range Contacts {
		rst := report(c.Mode)
		fmt.Fprintf(&b, "%s;%s;;%s;%s;%s %s;%s;;0;;;\n",
			timeOf(i).Format("15:04"), c.Call, c.Mode, rst, rst, rcvSerial(i), c.Locator)
	}
	fmt.Fprintf(&b, "%s;OK9BAD;;SSB;59;59 999;XX;;0;;;\n", timeOf(len(Contacts)).Format("15:04"))
	return b.String()
}

// ADIF renders the contacts as an ADIF file with a header. The last record
// has no call.
func ADIF() string {
	var b strings.Builder
	b.WriteString("hamgrid sample export\n")
	b.WriteString(tag("ADIF_VER", "3.1.4") + tag("PROGRAMID", "genmock") + "<EOH>\n")
	for i, c := range Contacts {
		rst := report(c.Mode)
		b.WriteString(tag("CALL", c.Call))
		b.WriteString(tag("QSO_DATE", ContestDate.Format("20060102")))
		b.WriteString(tag("TIME_ON", timeOf(i).Format("1504")))
		b.WriteString(tag("MODE", c.Mode))
		b.WriteString(tag("GRIDSQUARE", c.Locator))
		b.WriteString(tag("RST_SENT", rst))
		b.WriteString(tag("RST_RCVD", rst))
		b.WriteString(tag("STX", fmt.Sprintf("%03d", i+1)))
		b.WriteString(tag("SRX", rcvSerial(i)))
		b.WriteString(tag("STATION_CALLSIGN", MyCall))
		b.WriteString(tag("MY_GRIDSQUARE", MyLocator))
		b.WriteString("<EOR>\n")
	}
	b.WriteString(tag("MODE", "SSB") + "<EOR>\n")
	return b.String()
}

// Cabrillo renders the contacts as a Cabrillo log with the remote locator as
// the last exchange token. The last QSO: line is truncated.
func Cabrillo() string {
	var b strings.Builder
	b.WriteString("START-OF-LOG: 3.0\n")
	fmt.Fprintf(&b, "CALLSIGN: %s\n", MyCall)
	b.WriteString("CONTEST: VHF-SAMPLE\n")
	for i, c := range Contacts {
		rst := report(c.Mode)
		fmt.Fprintf(&b, "QSO: %s %s %s %s %-10s %s %03d %-10s %s %s %s\n",
			freq(c.Mode), cabrilloMode(c.Mode), ContestDate.Format("2006-01-02"), timeOf(i).Format("1504"),
			MyCall, rst, i+1, c.Call, rst, rcvSerial(i), c.Locator)
	}
	fmt.Fprintf(&b, "QSO: 144300 PH %s 0800 %s 59\n", ContestDate.Format("2006-01-02"), MyCall)
	b.WriteString("END-OF-LOG:\n")
	return b.String()
}

func timeOf(i int) time.Time {
	return ContestDate.Add(time.Duration(i*6) * time.Minute)
}

func report(mode string) string {
	if mode == "CW" {
		return "599"
	}
	return "59"
}

func rcvSerial(i int) string {
	return fmt.Sprintf("%03d", i*7+3)
}

func freq(mode string) string {
	if mode == "CW" {
		return "144050"
	}
	return "144300"
}

func cabrilloMode(mode string) string {
	switch mode {
	case "CW":
		return "CW"
	case "FM":
		return "FM"
	default:
		return "PH"
	}
}

func tag(key, value string) string {
	return fmt.Sprintf("<%s:%d>%s ", key, len(value), value)
}
