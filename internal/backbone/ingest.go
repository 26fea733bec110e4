// Package backbone ingests messages from the internet relay server.
//
// The relay answers a heartbeat poll with one queued message per line:
//
//	<id>: <datetime> <freq> <reserved> <snr> <callsign>: <payload>
//
// Ids are monotonic per relay. The ingester parses each line into a typed
// record, hands it to a persistence sink, and advances the data_id cursor
// so the next poll requests only newer messages.
package backbone

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/commstat/commstat/internal/statrep"
	"github.com/commstat/commstat/internal/textnorm"
	"github.com/commstat/commstat/internal/types"
)

// timeLayout is the relay's datetime format (UTC).
const timeLayout = "2006-01-02 15:04:05"

// Ingester turns relay response text into persisted records. It owns no
// storage or UI; the sink and notifier are injected. Callers must serialize
// batches for the same cursor.
type Ingester struct {
	sink     types.Sink
	notifier types.Notifier

	// Logf receives skip/warning lines. Defaults to stderr.
	Logf func(format string, args ...any)
}

// Result reports what a batch did.
type Result struct {
	Cursor    int64 // new cursor: max(previous, max id of any line attempted)
	Persisted int   // records durably handed to the sink
	Malformed int   // lines skipped as unparseable
	Duplicate int   // lines discarded with id <= previous cursor
	Failed    int   // records the sink rejected
	Changes   types.ChangeSet
}

// NewIngester creates an ingester writing to sink and signaling notifier.
func NewIngester(sink types.Sink, notifier types.Notifier) *Ingester {
	return &Ingester{
		sink:     sink,
		notifier: notifier,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Ingest processes one relay response against the previous cursor value.
//
// Malformed lines are skipped and logged, never fatal, and still count
// toward cursor advancement so a bad line is not re-fetched forever. A sink
// failure for one record is logged and the batch continues. The batch is
// treated as not happened (cursor unchanged, error returned) only when
// records parsed but none could be persisted, or the context was canceled.
func (in *Ingester) Ingest(ctx context.Context, response string, cursor int64) (Result, error) {
	result := Result{Cursor: cursor, Changes: types.NewChangeSet()}
	parsed := 0

	for _, rawLine := range strings.Split(response, "\n") {
		if err := ctx.Err(); err != nil {
			return Result{Cursor: cursor, Changes: types.NewChangeSet()}, err
		}

		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		id, rest, ok := splitID(line)
		if !ok {
			// No id prefix: nothing to advance the cursor with.
			result.Malformed++
			in.Logf("backbone: skipping line without id prefix: %s", line)
			continue
		}

		// The line was looked at; it must not be re-fetched next poll,
		// whether or not it parses.
		if id > result.Cursor {
			result.Cursor = id
		}

		if id <= cursor {
			result.Duplicate++
			continue
		}

		rec, err := parseLine(rest)
		if err != nil {
			result.Malformed++
			in.Logf("backbone: skipping id %d: %v", id, err)
			continue
		}
		parsed++

		if err := in.sink.Persist(ctx, rec); err != nil {
			result.Failed++
			in.Logf("backbone: persist failed for id %d: %v", id, err)
			continue
		}
		result.Persisted++
		result.Changes.Add(rec.Kind())
	}

	// Whole-batch persistence failure: report it and leave the cursor
	// where it was so the batch is retried.
	if parsed > 0 && result.Persisted == 0 {
		return Result{Cursor: cursor, Changes: types.NewChangeSet()},
			fmt.Errorf("backbone: no record of %d parsed could be persisted", parsed)
	}

	if in.notifier != nil && !result.Changes.Empty() {
		in.notifier.RecordsChanged(result.Changes)
	}
	return result, nil
}

// splitID matches the leading "<id>:" prefix and returns the id and the
// remainder of the line.
func splitID(line string) (int64, string, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(line[:colon]), 10, 64)
	if err != nil || id < 0 {
		return 0, "", false
	}
	return id, line[colon+1:], true
}

// parseLine extracts the fixed-order fields after the id prefix:
// datetime (two tokens), frequency, reserved, snr, "<callsign>:", payload.
func parseLine(rest string) (types.Record, error) {
	fields, payload, err := takeFields(rest, 6)
	if err != nil {
		return nil, err
	}

	timestamp := fields[0] + " " + fields[1]
	if !validTimestamp(timestamp) {
		return nil, fmt.Errorf("bad datetime %q", timestamp)
	}

	freq, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad frequency %q", fields[2])
	}
	if _, err := strconv.Atoi(fields[3]); err != nil {
		// Reserved field, always 0. Only its shape matters.
		return nil, fmt.Errorf("bad reserved field %q", fields[3])
	}
	snr, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("bad snr %q", fields[4])
	}

	callsign, ok := strings.CutSuffix(fields[5], ":")
	if !ok || callsign == "" {
		return nil, fmt.Errorf("bad callsign field %q", fields[5])
	}
	// Strip operating suffix like /P.
	callsign, _, _ = strings.Cut(callsign, "/")

	meta := types.Meta{
		Origin:    types.OriginRelay,
		Callsign:  callsign,
		Timestamp: timestamp,
		Frequency: freq,
		SNR:       snr,
	}
	return parsePayload(meta, payload)
}

// takeFields pops n whitespace-delimited tokens off the front of s and
// returns them with the untouched remainder.
func takeFields(s string, n int) ([]string, string, error) {
	fields := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s = strings.TrimLeft(s, " \t")
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			return nil, "", fmt.Errorf("wrong field count: expected %d fields before payload", n)
		}
		fields = append(fields, s[:end])
		s = s[end:]
	}
	return fields, strings.TrimLeft(s, " \t"), nil
}

func validTimestamp(s string) bool {
	if len(s) != len(timeLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch timeLayout[i] {
		case '-', ' ', ':':
			if s[i] != timeLayout[i] {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// parsePayload classifies the payload by its trailing marker and builds the
// typed record. Relay-origin text is never normalized; the only transform
// is the non-ASCII strip.
func parsePayload(meta types.Meta, payload string) (types.Record, error) {
	payload = textnorm.StripNonASCII(payload)

	markers := 0
	for _, marker := range []string{types.MarkerStatRep, types.MarkerForwardedStatRep, types.MarkerAlert} {
		if strings.Contains(payload, marker) {
			markers++
		}
	}
	if markers > 1 {
		return nil, fmt.Errorf("payload carries conflicting markers: %s", payload)
	}

	switch {
	case strings.Contains(payload, types.MarkerForwardedStatRep):
		return parseStatRepPayload(meta, payload, types.MarkerForwardedStatRep, true)
	case strings.Contains(payload, types.MarkerStatRep):
		return parseStatRepPayload(meta, payload, types.MarkerStatRep, false)
	case strings.Contains(payload, types.MarkerAlert):
		return parseAlertPayload(meta, payload)
	default:
		return types.PlainMessage{
			Common: withGroup(meta, payload),
			Body:   payload,
		}, nil
	}
}

// markerFields returns the comma-separated fields between the group prefix
// and the marker. A trailing empty field before the marker is dropped.
func markerFields(payload, marker string) ([]string, string, error) {
	before, _, _ := strings.Cut(payload, marker)
	group, after, found := strings.Cut(before, ",")
	if !found {
		return nil, "", fmt.Errorf("no fields before marker %s", marker)
	}
	fields := strings.Split(after, ",")
	if n := len(fields); n > 0 && strings.TrimSpace(fields[n-1]) == "" {
		fields = fields[:n-1]
	}
	return fields, strings.TrimSpace(group), nil
}

func parseStatRepPayload(meta types.Meta, payload, marker string, forwarded bool) (types.Record, error) {
	fields, group, err := markerFields(payload, marker)
	if err != nil {
		return nil, err
	}
	minFields := 4
	if forwarded {
		minFields = 6
	}
	if len(fields) < minFields {
		return nil, fmt.Errorf("statrep payload has %d fields, need %d: %s", len(fields), minFields, payload)
	}

	grid := strings.TrimSpace(fields[0])
	prec := strings.TrimSpace(fields[1])
	srid := strings.TrimSpace(fields[2])
	code := strings.TrimSpace(fields[3])
	comments := ""
	if len(fields) > 4 {
		comments = strings.TrimSpace(fields[4])
	}

	if !statrep.ValidPrecedence(prec) {
		return nil, fmt.Errorf("invalid precedence %q: %s", prec, payload)
	}
	parsed, err := statrep.Parse(code, forwarded)
	if err != nil {
		return nil, fmt.Errorf("invalid status code: %w", err)
	}

	meta = withGroupName(meta, group)
	if forwarded {
		origCall := strings.TrimSpace(fields[5])
		origCall, _, _ = strings.Cut(origCall, "/")
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
		}, nil
	}
	return types.StatRep{
		Common:     meta,
		Grid:       grid,
		Precedence: statrep.PrecedenceLabel(prec),
		SRID:       srid,
		Code:       parsed.Code(),
		Comments:   comments,
	}, nil
}

// parseAlertPayload handles "@GROUP ,[id,]color,title,body,{%%}". The id
// field is optional on the wire; three fields mean color,title,body.
func parseAlertPayload(meta types.Meta, payload string) (types.Record, error) {
	fields, group, err := markerFields(payload, types.MarkerAlert)
	if err != nil {
		return nil, err
	}
	var id, color, title, body string
	switch {
	case len(fields) >= 4:
		id = strings.TrimSpace(fields[0])
		color = strings.TrimSpace(fields[1])
		title = strings.TrimSpace(fields[2])
		body = strings.TrimSpace(strings.Join(fields[3:], ","))
	case len(fields) == 3:
		color = strings.TrimSpace(fields[0])
		title = strings.TrimSpace(fields[1])
		body = strings.TrimSpace(fields[2])
	default:
		return nil, fmt.Errorf("alert payload has %d fields: %s", len(fields), payload)
	}

	return types.Alert{
		Common: withGroupName(meta, group),
		ID:     id,
		Color:  color,
		Title:  title,
		Body:   body,
	}, nil
}

// withGroup extracts a leading "@GROUP" token from free text into the meta.
func withGroup(meta types.Meta, payload string) types.Meta {
	if strings.HasPrefix(payload, "@") {
		token, _, _ := strings.Cut(payload, " ")
		meta.Group = strings.TrimPrefix(token, "@")
	}
	return meta
}

func withGroupName(meta types.Meta, group string) types.Meta {
	meta.Group = strings.TrimPrefix(group, "@")
	return meta
}
