package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/commstat/commstat/internal/core"
	"github.com/commstat/commstat/internal/db"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPollBackboneAdvancesCursor(t *testing.T) {
	var requestedIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedIDs = append(requestedIDs, r.URL.Query().Get("id"))
		if r.URL.Query().Get("id") == "0" {
			w.Write([]byte("114: 2026-02-06 18:35:10 14118000 0 30 W1ABC: @ALL LRT ,1,Test Alert,This is a test,{%%}\n" +
				"115: 2026-02-06 18:36:40 14118000 0 28 K2DEF: plain text here\n"))
			return
		}
		// Nothing newer.
		w.Write([]byte(""))
	}))
	defer server.Close()

	conn, err := db.Open(filepath.Join(t.TempDir(), "traffic.db3"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("schema: %v", err)
	}

	cfg := core.Config{Callsign: "W1ABC", BackboneURL: server.URL}
	d := New(cfg, conn, Config{})

	ctx := context.Background()
	d.pollBackbone(ctx)
	d.pollBackbone(ctx)

	if len(requestedIDs) != 2 || requestedIDs[0] != "0" || requestedIDs[1] != "115" {
		t.Fatalf("requested ids = %v", requestedIDs)
	}

	cursor, err := db.GetCursor(conn)
	if err != nil {
		t.Fatalf("get cursor: %v", err)
	}
	if cursor != 115 {
		t.Fatalf("stored cursor = %d, want 115", cursor)
	}

	alerts, err := db.ListAlerts(conn, 10)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Title != "Test Alert" {
		t.Fatalf("alerts = %+v", alerts)
	}
	messages, err := db.ListMessages(conn, 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %+v", messages)
	}
}

func TestPollBackboneKeepsCursorOnPingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	conn, err := db.Open(filepath.Join(t.TempDir(), "traffic.db3"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := db.SetCursor(conn, 42); err != nil {
		t.Fatalf("seed cursor: %v", err)
	}

	cfg := core.Config{Callsign: "W1ABC", BackboneURL: server.URL}
	d := New(cfg, conn, Config{})
	d.cursor = 42

	d.pollBackbone(context.Background())

	cursor, _ := db.GetCursor(conn)
	if cursor != 42 {
		t.Fatalf("cursor = %d, want unchanged 42", cursor)
	}
}

func TestIngestDirectedPersistsRadioRecords(t *testing.T) {
	dir := t.TempDir()
	directed := filepath.Join(dir, "DIRECTED.TXT")
	writeFile(t, directed,
		"2026-02-06 18:35:10\t1500\t-12\t3\tW1ABC: @NET ,FN42,1,2061835,121212121212,all ok,{&%}\n")

	conn, err := db.Open(filepath.Join(dir, "traffic.db3"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("schema: %v", err)
	}

	cfg := core.Config{Callsign: "W1ABC", Group: "@NET", DirectedPath: directed}
	d := New(cfg, conn, Config{})

	d.ingestDirected(context.Background())

	reps, err := db.ListStatReps(conn, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reps) != 1 || reps[0].Origin != "radio" {
		t.Fatalf("reps = %+v", reps)
	}

	// A second pass over the same content must not duplicate.
	d.ingestDirected(context.Background())
	reps, _ = db.ListStatReps(conn, 10)
	if len(reps) != 1 {
		t.Fatalf("expected 1 rep after re-ingest, got %d", len(reps))
	}
}
