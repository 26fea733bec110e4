// Package radio ingests messages heard over the air, read from JS8Call's
// DIRECTED.TXT log. Unlike the relay path, free text on this path is
// normalized (abbreviation expansion, smart title case) before storage.
package radio

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/commstat/commstat/internal/maidenhead"
	"github.com/commstat/commstat/internal/statrep"
	"github.com/commstat/commstat/internal/textnorm"
	"github.com/commstat/commstat/internal/types"
)

// Directed log lines are tab-delimited; the station content sits in the
// fifth field as "CALLSIGN: @GROUP ,field,field,...,{marker}".
const (
	contentField = 4
	minTabFields = 5

	// tailLines bounds how far back a parse pass looks.
	tailLines = 50
)

// Expected combined field counts (tab fields + comma fields) per kind.
const (
	fieldCountBulletin  = 9
	fieldCountStatRep   = 12
	fieldCountForwarded = 13
	fieldCountMarquee   = 10
	fieldCountCheckIn   = 10
)

// Parser reads DIRECTED.TXT content into typed radio-origin records.
type Parser struct {
	// Group is the selected group; lines not addressed to it are skipped.
	Group string

	// Abbreviations feeds text normalization. Nil uses the built-in set.
	Abbreviations map[string]string

	// Logf receives skip diagnostics. Defaults to stderr.
	Logf func(format string, args ...any)
}

// NewParser creates a parser filtering on the selected group.
func NewParser(group string) *Parser {
	return &Parser{
		Group: group,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Result reports a parse pass over the directed log.
type Result struct {
	Records   []types.Record
	Since     string // newest timestamp seen; pass back on the next call
	Malformed int
	Skipped   int
	Changes   types.ChangeSet
}

// Parse scans the last lines of the directed log, skipping lines whose
// timestamp is not newer than since. Timestamps sort lexicographically in
// the log's "YYYY-MM-DD HH:MM:SS" form.
func (p *Parser) Parse(ctx context.Context, text, since string) (Result, error) {
	result := Result{Since: since, Changes: types.NewChangeSet()}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		ts := lineTimestamp(line)
		if ts != "" && since != "" && ts <= since {
			continue
		}
		if ts > result.Since {
			result.Since = ts
		}

		rec, skip, err := p.parseLine(line)
		if err != nil {
			result.Malformed++
			p.Logf("radio: %v", err)
			continue
		}
		if skip {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
		result.Changes.Add(rec.Kind())
	}
	return result, nil
}

func lineTimestamp(line string) string {
	ts, _, _ := strings.Cut(line, "\t")
	return ts
}

// parseLine handles one directed log line. skip is true for lines that are
// well formed but not for this group or not a recognized message.
func (p *Parser) parseLine(line string) (rec types.Record, skip bool, err error) {
	if p.Group != "" && !strings.Contains(line, p.Group) {
		return nil, true, nil
	}

	tabs := strings.Split(line, "\t")
	if len(tabs) < minTabFields {
		return nil, false, fmt.Errorf("line has %d tab fields, need %d: %s", len(tabs), minTabFields, line)
	}
	utc := tabs[0]
	content := textnorm.StripNonASCII(tabs[contentField])
	commas := strings.Split(content, ",")

	callsign := extractCallsign(commas[0])
	count := len(tabs) + len(commas)

	meta := types.Meta{
		Origin:    types.OriginRadio,
		Callsign:  callsign,
		Timestamp: utc,
		Group:     p.Group,
	}

	switch {
	case strings.Contains(line, types.MarkerBulletin):
		return p.parseBulletin(meta, commas, count, line)
	case strings.Contains(line, types.MarkerForwardedStatRep):
		return p.parseStatRep(meta, commas, count, line, true)
	case strings.Contains(line, types.MarkerStatRep):
		return p.parseStatRep(meta, commas, count, line, false)
	case strings.Contains(line, types.MarkerMarquee):
		return p.parseMarquee(meta, commas, count, line)
	case strings.Contains(line, types.MarkerCheckIn):
		return p.parseCheckIn(meta, commas, count, line)
	default:
		// Addressed to the group but not a recognized structured message.
		return nil, true, nil
	}
}

// extractCallsign pulls the callsign from "CALLSIGN/SUFFIX: ..." content.
func extractCallsign(part string) string {
	callsign, _, _ := strings.Cut(part, ":")
	callsign, _, _ = strings.Cut(callsign, "/")
	return strings.TrimSpace(callsign)
}

func (p *Parser) parseBulletin(meta types.Meta, commas []string, count int, line string) (types.Record, bool, error) {
	if count != fieldCountBulletin {
		return nil, false, fmt.Errorf("bulletin field count %d, need %d: %s", count, fieldCountBulletin, line)
	}
	return types.Bulletin{
		Common: meta,
		ID:     strings.TrimSpace(commas[1]),
		Body:   textnorm.Normalize(strings.TrimSpace(trimMarker(commas[2])), p.Abbreviations),
	}, false, nil
}

func (p *Parser) parseStatRep(meta types.Meta, commas []string, count int, line string, forwarded bool) (types.Record, bool, error) {
	want := fieldCountStatRep
	if forwarded {
		want = fieldCountForwarded
	}
	if count != want {
		return nil, false, fmt.Errorf("statrep field count %d, need %d: %s", count, want, line)
	}

	grid := strings.TrimSpace(commas[1])
	prec := strings.TrimSpace(commas[2])
	srid := strings.TrimSpace(commas[3])
	code := strings.TrimSpace(commas[4])
	comments := textnorm.Normalize(strings.TrimSpace(trimMarker(commas[5])), p.Abbreviations)

	if !statrep.ValidPrecedence(prec) {
		return nil, false, fmt.Errorf("statrep has invalid precedence %q: %s", prec, line)
	}
	parsed, err := statrep.Parse(code, forwarded)
	if err != nil {
		return nil, false, fmt.Errorf("statrep status code rejected: %w: %s", err, line)
	}

	if forwarded {
		origCall := extractCallsign(commas[6])
		if origCall == "" {
			origCall = meta.Callsign
		}
		return types.ForwardedStatRep{
			Common:       meta,
			Grid:         grid,
			Precedence:   statrep.PrecedenceLabel(prec),
			SRID:         srid,
			Code:         parsed.Code(),
			Comments:     comments,
			OrigCallsign: origCall,
		}, false, nil
	}
	return types.StatRep{
		Common:     meta,
		Grid:       grid,
		Precedence: statrep.PrecedenceLabel(prec),
		SRID:       srid,
		Code:       parsed.Code(),
		Comments:   comments,
	}, false, nil
}

func (p *Parser) parseMarquee(meta types.Meta, commas []string, count int, line string) (types.Record, bool, error) {
	if count != fieldCountMarquee {
		return nil, false, fmt.Errorf("marquee field count %d, need %d: %s", count, fieldCountMarquee, line)
	}
	return types.Marquee{
		Common: meta,
		ID:     strings.TrimSpace(commas[1]),
		Color:  strings.TrimSpace(commas[2]),
		Body:   textnorm.Normalize(strings.TrimSpace(trimMarker(commas[3])), p.Abbreviations),
	}, false, nil
}

func (p *Parser) parseCheckIn(meta types.Meta, commas []string, count int, line string) (types.Record, bool, error) {
	if count != fieldCountCheckIn {
		return nil, false, fmt.Errorf("check-in field count %d, need %d: %s", count, fieldCountCheckIn, line)
	}
	traffic := strings.TrimSpace(commas[1])
	state := strings.TrimSpace(commas[2])
	grid := strings.TrimSpace(trimMarker(commas[3]))

	lat, lon, err := maidenhead.ToLocation(grid, len(grid) != 6)
	if err != nil {
		return nil, false, fmt.Errorf("check-in grid rejected: %w: %s", err, line)
	}
	return types.CheckIn{
		Common:  meta,
		Traffic: traffic,
		State:   state,
		Grid:    grid,
		Lat:     lat,
		Lon:     lon,
	}, false, nil
}

// trimMarker removes any trailing message marker from a field.
func trimMarker(s string) string {
	for _, marker := range []string{
		types.MarkerBulletin, types.MarkerStatRep, types.MarkerForwardedStatRep,
		types.MarkerMarquee, types.MarkerCheckIn, types.MarkerAlert,
	} {
		s = strings.ReplaceAll(s, marker, "")
	}
	return s
}
