// Package textnorm holds the text cleanup applied to incoming message text.
//
// Both ingestion paths strip non-ASCII bytes. Only the radio path applies
// normalization (abbreviation expansion and smart title case); relay-origin
// text is stored byte-for-byte after the ASCII strip.
package textnorm

import (
	"regexp"
	"strings"
)

// StripNonASCII removes every byte outside the printable ASCII range.
// Casing of the remaining text is untouched.
func StripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] <= 0x7e {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// DefaultAbbreviations covers common JS8Call shorthand. Operators can
// extend the set through the abbreviations table in the traffic database.
var DefaultAbbreviations = map[string]string{
	"ABT":  "about",
	"AGN":  "again",
	"ANT":  "antenna",
	"BTU":  "back to you",
	"CPY":  "copy",
	"FER":  "for",
	"GM":   "good morning",
	"GE":   "good evening",
	"GN":   "good night",
	"HW":   "how",
	"MSG":  "message",
	"PSE":  "please",
	"PWR":  "power",
	"RCVD": "received",
	"TNX":  "thanks",
	"TU":   "thank you",
	"UR":   "your",
	"VY":   "very",
	"WX":   "weather",
	"XMIT": "transmit",
}

// callsignRe matches US amateur radio callsigns.
var callsignRe = regexp.MustCompile(`(?i)\b[AKNW][A-Z]?[0-9][A-Z]{1,3}\b`)

// acronyms stay uppercase under smart title case.
var acronyms = map[string]bool{}

func init() {
	for _, a := range []string{
		"HF", "VHF", "UHF", "FM", "AM", "SSB", "CW", "FT8", "FT4",
		"JS8", "PSK", "RTTY", "APRS", "DMR", "EME",
		"QRP", "QRO", "QSO", "QSL", "QTH", "QRZ", "RST",
		"SWR", "RF", "DC", "AC", "LED", "LCD", "USB", "LSB",
		"ANT", "RX", "TX", "PTT", "VOX", "AGC",
		"ARRL", "AMRRON", "ARES", "RACES", "MARS", "CERT",
		"FEMA", "NWS", "NOAA", "FAA", "FCC", "ITU",
		"GPS", "UTC", "GMT", "PDT", "PST", "EDT", "EST", "CDT", "CST", "MDT", "MST",
		"USA", "UK", "EU", "NATO", "UN",
		"ID", "OK", "SOS", "CQ", "DX", "OM", "XYL", "YL",
		"SOTA", "POTA", "IOTA", "NVIS", "EMCOMM", "AUXCOMM", "SKYWARN",
		"MHZ", "KHZ", "GHZ", "DB", "DBM",
		"SR", "SRID", "STATREP",
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
		"HI", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
		"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
		"NM", "NY", "NC", "ND", "OH", "OR", "PA", "RI", "SC",
		"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	} {
		acronyms[a] = true
	}
}

// ExpandAbbreviations replaces known abbreviations word by word, matching
// case-insensitively and preserving trailing punctuation.
func ExpandAbbreviations(text string, abbreviations map[string]string) string {
	if text == "" || len(abbreviations) == 0 {
		return text
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		stripped := strings.TrimRight(word, ".,!?;:")
		suffix := word[len(stripped):]
		if expansion, ok := abbreviations[strings.ToUpper(stripped)]; ok {
			out = append(out, expansion+suffix)
		} else {
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

// SmartTitleCase title-cases text while preserving callsigns and known
// acronyms. Short all-caps words not in the acronym set are kept uppercase
// as probable acronyms.
func SmartTitleCase(text string, abbreviations map[string]string) string {
	if text == "" {
		return text
	}

	text = ExpandAbbreviations(text, abbreviations)

	callsigns := map[string]bool{}
	for _, match := range callsignRe.FindAllString(text, -1) {
		callsigns[strings.ToUpper(match)] = true
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		stripped := strings.TrimRight(word, `.,!?;:'"`)
		suffix := word[len(stripped):]
		upper := strings.ToUpper(stripped)

		switch {
		case callsigns[upper]:
			out = append(out, upper+suffix)
		case acronyms[upper]:
			out = append(out, upper+suffix)
		case len(stripped) >= 2 && len(stripped) <= 5 && stripped == upper && isAlpha(stripped):
			out = append(out, upper+suffix)
		default:
			out = append(out, capitalize(stripped)+suffix)
		}
	}
	return strings.Join(out, " ")
}

// Normalize is the full radio-path treatment: abbreviation expansion plus
// smart title case. Never applied to relay-origin text.
func Normalize(text string, abbreviations map[string]string) string {
	if abbreviations == nil {
		abbreviations = DefaultAbbreviations
	}
	return SmartTitleCase(text, abbreviations)
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return len(s) > 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
