// Package statrep implements the 12-character status code carried by
// StatRep messages: one condition digit per tracked category, in fixed
// order. An all-clear code compresses to a single "+" on the wire.
package statrep

import (
	"fmt"
	"strings"
)

const (
	// CodeLength is the number of condition fields in a status code.
	CodeLength = 12

	// AllClear is the fully expanded all-clear code.
	AllClear = "111111111111"

	// Compressed stands in for AllClear on the wire.
	Compressed = "+"
)

// Fields holds the per-category condition digits of a status code, in wire
// order.
type Fields struct {
	Status    byte
	CommPower byte
	PubWater  byte
	Medical   byte
	OTA       byte
	Travel    byte
	Net       byte
	Fuel      byte
	Food      byte
	Crime     byte
	Civil     byte
	Political byte
}

// Code reassembles the 12-character wire form.
func (f Fields) Code() string {
	return string([]byte{
		f.Status, f.CommPower, f.PubWater, f.Medical, f.OTA, f.Travel,
		f.Net, f.Fuel, f.Food, f.Crime, f.Civil, f.Political,
	})
}

// Expand replaces the compression marker with the full all-clear code.
// Any other value passes through untouched; expansion is idempotent.
func Expand(code string) string {
	if code == Compressed {
		return AllClear
	}
	return code
}

// Compress applies the wire compression. Only the exact all-clear pattern
// compresses; everything else passes through untouched.
func Compress(code string) string {
	if code == AllClear {
		return Compressed
	}
	return code
}

// Parse validates a status code and splits it into fields. The code may be
// the compressed form; it is expanded first. Locally originated reports
// allow status digits 1-3; forwarded reports allow 1-4. All other fields
// allow 1-4.
func Parse(code string, forwarded bool) (Fields, error) {
	code = Expand(code)
	if len(code) != CodeLength {
		return Fields{}, fmt.Errorf("status code must be %d characters, got %d", CodeLength, len(code))
	}

	statusMax := byte('3')
	if forwarded {
		statusMax = '4'
	}
	if code[0] < '1' || code[0] > statusMax {
		return Fields{}, fmt.Errorf("invalid status digit %q in code %q", code[0], code)
	}
	for i := 1; i < CodeLength; i++ {
		if code[i] < '1' || code[i] > '4' {
			return Fields{}, fmt.Errorf("invalid condition digit %q at position %d in code %q", code[i], i, code)
		}
	}

	return Fields{
		Status:    code[0],
		CommPower: code[1],
		PubWater:  code[2],
		Medical:   code[3],
		OTA:       code[4],
		Travel:    code[5],
		Net:       code[6],
		Fuel:      code[7],
		Food:      code[8],
		Crime:     code[9],
		Civil:     code[10],
		Political: code[11],
	}, nil
}

// precedenceLabels maps the 1-5 precedence code to its display label.
var precedenceLabels = map[string]string{
	"1": "My Location",
	"2": "My Community",
	"3": "My County",
	"4": "My Region",
	"5": "Other Location",
}

// ValidPrecedence reports whether code is a recognized precedence digit.
func ValidPrecedence(code string) bool {
	_, ok := precedenceLabels[strings.TrimSpace(code)]
	return ok
}

// PrecedenceLabel maps a precedence code to its display label, or "Unknown".
func PrecedenceLabel(code string) string {
	if label, ok := precedenceLabels[strings.TrimSpace(code)]; ok {
		return label
	}
	return "Unknown"
}
