package backbone

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/commstat/commstat/internal/types"
)

type fakeSink struct {
	records []types.Record
	failOn  func(types.Record) error
}

func (s *fakeSink) Persist(_ context.Context, rec types.Record) error {
	if s.failOn != nil {
		if err := s.failOn(rec); err != nil {
			return err
		}
	}
	s.records = append(s.records, rec)
	return nil
}

type fakeNotifier struct {
	calls []types.ChangeSet
}

func (n *fakeNotifier) RecordsChanged(changes types.ChangeSet) {
	n.calls = append(n.calls, changes)
}

func newTestIngester(sink types.Sink, notifier types.Notifier) *Ingester {
	in := NewIngester(sink, notifier)
	in.Logf = func(string, ...any) {}
	return in
}

const alertLine = "114:  2026-02-06 18:35:10    14118000    0    30    W1ABC: @ALL LRT ,1,Test Alert,This is a test,{%%}"

func TestIngestAlertEndToEnd(t *testing.T) {
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	in := newTestIngester(sink, notifier)

	result, err := in.Ingest(context.Background(), alertLine, 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 114 {
		t.Fatalf("cursor = %d, want 114", result.Cursor)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	alert, ok := sink.records[0].(types.Alert)
	if !ok {
		t.Fatalf("expected Alert, got %T", sink.records[0])
	}
	if alert.Common.Callsign != "W1ABC" {
		t.Fatalf("callsign = %q", alert.Common.Callsign)
	}
	if alert.Title != "Test Alert" || alert.Body != "This is a test" {
		t.Fatalf("title=%q body=%q", alert.Title, alert.Body)
	}
	if alert.Common.Origin != types.OriginRelay {
		t.Fatalf("origin = %q", alert.Common.Origin)
	}
	if alert.Common.Frequency != 14118000 || alert.Common.SNR != 30 {
		t.Fatalf("freq=%d snr=%d", alert.Common.Frequency, alert.Common.SNR)
	}
	if len(notifier.calls) != 1 || !notifier.calls[0].Categories[types.CategoryAlert] {
		t.Fatalf("notifier calls: %+v", notifier.calls)
	}
}

func TestIngestMarkerClassification(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    types.Kind
	}{
		{"statrep", "@ALL ,FN42,1,2061835,+,all well,{&%}", types.KindStatRep},
		{"forwarded", "@ALL ,FN42,1,2061835,121212121212,relayed,K2DEF,{F%}", types.KindForwardedStatRep},
		{"alert", "@ALL ,2,Storm,Take cover,{%%}", types.KindAlert},
		{"plain", "@ALL just saying hello", types.KindMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{}
			in := newTestIngester(sink, nil)
			line := "7: 2026-02-06 18:35:10 14118000 0 -12 W1ABC: " + tt.payload
			result, err := in.Ingest(context.Background(), line, 0)
			if err != nil {
				t.Fatalf("ingest: %v", err)
			}
			if len(sink.records) != 1 {
				t.Fatalf("expected 1 record, got %d (malformed=%d)", len(sink.records), result.Malformed)
			}
			if sink.records[0].Kind() != tt.kind {
				t.Fatalf("kind = %q, want %q", sink.records[0].Kind(), tt.kind)
			}
		})
	}
}

func TestIngestCompressedStatusCode(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	line := "9: 2026-02-06 18:35:10 7110000 0 5 W1ABC: @NET ,FN42,2,2061835,+,,{&%}"
	if _, err := in.Ingest(context.Background(), line, 0); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	sr := sink.records[0].(types.StatRep)
	if sr.Code != "111111111111" {
		t.Fatalf("code = %q, want expanded all clear", sr.Code)
	}
	if sr.Precedence != "My Community" {
		t.Fatalf("precedence = %q", sr.Precedence)
	}
	if sr.Grid != "FN42" {
		t.Fatalf("grid = %q", sr.Grid)
	}
}

func TestIngestCursorMaxOfBatch(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	lines := strings.Join([]string{
		"114: 2026-02-06 18:35:10 14118000 0 30 W1ABC: first message",
		"115: 2026-02-06 18:36:40 14118000 0 28 K2DEF: second message",
	}, "\n")

	result, err := in.Ingest(context.Background(), lines, 113)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 115 {
		t.Fatalf("cursor = %d, want 115", result.Cursor)
	}
	if len(sink.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(sink.records))
	}
}

func TestIngestDiscardsRedeliveredIDs(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	line := "114: 2026-02-06 18:35:10 14118000 0 30 W1ABC: redelivered by relay bug"

	result, err := in.Ingest(context.Background(), line, 115)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 115 {
		t.Fatalf("cursor = %d, want 115", result.Cursor)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
	if result.Duplicate != 1 {
		t.Fatalf("duplicate = %d, want 1", result.Duplicate)
	}
}

func TestIngestMalformedLineAdvancesCursor(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	// Wrong field count: no snr/callsign fields.
	line := "42: 2026-02-06 18:35:10 14118000"

	result, err := in.Ingest(context.Background(), line, 10)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 42 {
		t.Fatalf("cursor = %d, want 42 (malformed line must not re-fetch)", result.Cursor)
	}
	if len(sink.records) != 0 {
		t.Fatalf("malformed line produced a record")
	}
	if result.Malformed != 1 {
		t.Fatalf("malformed = %d, want 1", result.Malformed)
	}
}

func TestIngestLineWithoutIDPrefix(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	result, err := in.Ingest(context.Background(), "garbage with no id\n", 10)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 10 {
		t.Fatalf("cursor = %d, want 10", result.Cursor)
	}
	if result.Malformed != 1 {
		t.Fatalf("malformed = %d, want 1", result.Malformed)
	}
}

func TestIngestInvalidStatusCodeSkipsRecord(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	lines := strings.Join([]string{
		"20: 2026-02-06 18:35:10 14118000 0 30 W1ABC: @NET ,FN42,1,2061835,12341234,short code,{&%}",
		"21: 2026-02-06 18:36:40 14118000 0 30 K2DEF: good plain message",
	}, "\n")

	result, err := in.Ingest(context.Background(), lines, 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Cursor != 21 {
		t.Fatalf("cursor = %d, want 21", result.Cursor)
	}
	if len(sink.records) != 1 || sink.records[0].Kind() != types.KindMessage {
		t.Fatalf("expected only the plain message, got %d records", len(sink.records))
	}
	if result.Malformed != 1 {
		t.Fatalf("malformed = %d, want 1", result.Malformed)
	}
}

func TestIngestConflictingMarkersSkipped(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	line := "5: 2026-02-06 18:35:10 14118000 0 30 W1ABC: @ALL ,1,Two,Markers,{%%} {&%}"
	result, err := in.Ingest(context.Background(), line, 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(sink.records) != 0 || result.Malformed != 1 {
		t.Fatalf("conflicting markers should skip: records=%d malformed=%d", len(sink.records), result.Malformed)
	}
	if result.Cursor != 5 {
		t.Fatalf("cursor = %d, want 5", result.Cursor)
	}
}

func TestIngestStripsNonASCIIWithoutCasing(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	line := "8: 2026-02-06 18:35:10 14118000 0 30 W1ABC: HeLLo©"
	if _, err := in.Ingest(context.Background(), line, 0); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	msg := sink.records[0].(types.PlainMessage)
	if msg.Body != "HeLLo" {
		t.Fatalf("body = %q, want HeLLo with casing intact", msg.Body)
	}
}

func TestIngestSinkFailureContinuesBatch(t *testing.T) {
	sink := &fakeSink{
		failOn: func(rec types.Record) error {
			if rec.Kind() == types.KindAlert {
				return errors.New("disk full")
			}
			return nil
		},
	}
	in := newTestIngester(sink, nil)
	lines := strings.Join([]string{
		"30: 2026-02-06 18:35:10 14118000 0 30 W1ABC: @ALL ,1,Fail,Me,{%%}",
		"31: 2026-02-06 18:36:40 14118000 0 30 K2DEF: should still land",
	}, "\n")

	result, err := in.Ingest(context.Background(), lines, 0)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Failed != 1 || result.Persisted != 1 {
		t.Fatalf("failed=%d persisted=%d", result.Failed, result.Persisted)
	}
	if result.Cursor != 31 {
		t.Fatalf("cursor = %d, want 31", result.Cursor)
	}
}

func TestIngestWholeBatchPersistFailure(t *testing.T) {
	sink := &fakeSink{
		failOn: func(types.Record) error { return errors.New("db locked") },
	}
	in := newTestIngester(sink, nil)
	line := "40: 2026-02-06 18:35:10 14118000 0 30 W1ABC: hello"

	result, err := in.Ingest(context.Background(), line, 12)
	if err == nil {
		t.Fatal("expected error when nothing could be persisted")
	}
	if result.Cursor != 12 {
		t.Fatalf("cursor = %d, want unchanged 12", result.Cursor)
	}
}

func TestIngestNoNotifyWhenNothingChanged(t *testing.T) {
	notifier := &fakeNotifier{}
	in := newTestIngester(&fakeSink{}, notifier)
	if _, err := in.Ingest(context.Background(), "not a line\n", 3); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("notifier should not fire on empty change set")
	}
}

func TestIngestForwardedStatRepOrigCallsign(t *testing.T) {
	sink := &fakeSink{}
	in := newTestIngester(sink, nil)
	line := "50: 2026-02-06 18:35:10 7110000 0 2 W1ABC: @NET ,FN42,5,2061835,411111111111,heard via relay,K2DEF/P,{F%}"
	if _, err := in.Ingest(context.Background(), line, 0); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	fwd := sink.records[0].(types.ForwardedStatRep)
	if fwd.OrigCallsign != "K2DEF" {
		t.Fatalf("orig callsign = %q", fwd.OrigCallsign)
	}
	if fwd.Common.Callsign != "W1ABC" {
		t.Fatalf("forwarder = %q", fwd.Common.Callsign)
	}
	if fwd.Code != "411111111111" {
		t.Fatalf("code = %q", fwd.Code)
	}
}
