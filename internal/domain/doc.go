// Package domain turns uploaded amateur-radio logs into enriched contact
// (QSO) events.
//
// # Data Source
//
// Each source message carries one log file exactly as uploaded: EDI from VHF
// contest software, ADIF from general loggers, or Cabrillo from HF contest
// loggers. Files are decoded as UTF-8, falling back to Windows-1250 which is
// still common in Central European contest logs. See [ParseRawLog].
//
// # Log Conventions
//
// Locators:
//
//	Maidenhead, 2/4/6 characters: field (JN), square (JN89), subsquare (JN89ab).
//	EDI only accepts six-character remote locators with fields A-R.
//	ADIF may carry 8-character extended squares; only the first six are kept.
//
// Times:
//
//	EDI gives HH:MM per contact and the contest date once in [MAIN] DATE=YYYYMMDD.
//	ADIF gives QSO_DATE (YYYYMMDD) and TIME_ON (HHMM or HHMMSS).
//	Cabrillo gives YYYY-MM-DD and HHMM per QSO: line.
//	All are normalized to YYYY-MM-DD and HH:MM and read as UTC.
//
// Sent serials:
//
//	EDI exports rarely include the sent serial, so it is synthesized: 001 for
//	the first accepted contact, 002 for the next, and so on in file order.
//
// Mode classes:
//
//	cw, phone, digital or unknown, by exact mode name. Cabrillo uses the short
//	codes CW, PH, FM, RY and DG.
//
// # Enrichment
//
// Every contact gets its DXCC entity by longest callsign prefix, the centres
// of both locators, the great-circle distance and initial bearing between
// them, and optionally the name of the place at the remote centre.
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of the format, call, date, time,
// locator, frequency, mode and source line, prefixed with the format. The import ID shared by every contact of one file
// is a name-based UUID of the file bytes, so consumers can replace an earlier
// import of the same file wholesale. See [generateID] and [ImportID].
package domain
