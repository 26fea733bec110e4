// Package daemon runs the background ingestion loops: periodic backbone
// polls and a watch on JS8Call's DIRECTED.TXT for radio traffic.
package daemon

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/commstat/commstat/internal/backbone"
	"github.com/commstat/commstat/internal/core"
	"github.com/commstat/commstat/internal/db"
	"github.com/commstat/commstat/internal/radio"
	"github.com/commstat/commstat/internal/types"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Daemon owns the poll loop. Backbone batches are serialized by running on
// a single goroutine: a poll starts only after the previous one's cursor
// update completed.
type Daemon struct {
	config   core.Config
	database *sql.DB
	store    *db.Store
	client   *backbone.Client
	ingester *backbone.Ingester
	parser   *radio.Parser

	// cursor is the in-memory data_id. It advances even when the store
	// write fails so one process run never re-requests seen ids; a crash
	// before the write lands re-processes those ids on restart.
	cursor     int64
	radioSince string

	notifier     *refreshNotifier
	watcher      *fsnotify.Watcher
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	pollInterval time.Duration
	debug        bool
}

// Config holds daemon options.
type Config struct {
	PollInterval time.Duration
	Debug        bool
	// Notify enables desktop notifications for incoming alerts.
	Notify bool
}

// New creates a daemon over an open traffic database.
func New(cfg core.Config, database *sql.DB, opts Config) *Daemon {
	if opts.PollInterval == 0 {
		opts.PollInterval = cfg.PollInterval()
	}

	store := db.NewStore(database)
	d := &Daemon{
		config:       cfg,
		database:     database,
		store:        store,
		client:       backbone.NewClient(cfg.BackboneURL, cfg.Callsign, core.Build),
		parser:       radio.NewParser(cfg.Group),
		stopCh:       make(chan struct{}),
		pollInterval: opts.PollInterval,
		debug:        opts.Debug,
	}
	d.notifier = &refreshNotifier{notify: opts.Notify, debugf: d.debugf}
	d.ingester = backbone.NewIngester(store, d.notifier)
	return d
}

// Run starts the loops and blocks until ctx is canceled or Stop is called.
func (d *Daemon) Run(ctx context.Context) error {
	cursor, err := db.GetCursor(d.database)
	if err != nil {
		return fmt.Errorf("load cursor: %w", err)
	}
	d.cursor = cursor

	if abbrevs, err := db.GetAbbreviations(d.database); err == nil && len(abbrevs) > 0 {
		d.parser.Abbreviations = abbrevs
	}

	if d.config.DirectedPath != "" {
		if err := d.startDirectedWatcher(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: directed watcher disabled: %v\n", err)
		}
	}

	d.debugf("daemon started, cursor=%d, interval=%s", d.cursor, d.pollInterval)

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	// Poll once at startup rather than waiting a full interval.
	d.pollBackbone(ctx)

	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return ctx.Err()
		case <-d.stopCh:
			d.wg.Wait()
			return nil
		case <-ticker.C:
			d.pollBackbone(ctx)
		}
	}
}

// Stop signals the daemon to exit.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// pollBackbone runs one heartbeat poll cycle. Runs only on the Run
// goroutine, which serializes batches per cursor.
func (d *Daemon) pollBackbone(ctx context.Context) {
	if d.config.BackboneURL == "" {
		return
	}
	runID := uuid.New().String()[:8]

	response, err := d.client.Ping(ctx, d.cursor, 30)
	if err != nil {
		d.debugf("poll %s: ping failed: %v", runID, err)
		return
	}

	result, err := d.ingester.Ingest(ctx, response, d.cursor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: backbone batch failed, will retry: %v\n", err)
		return
	}
	if result.Cursor == d.cursor && result.Persisted == 0 {
		d.debugf("poll %s: nothing new", runID)
		return
	}

	d.cursor = result.Cursor
	if err := db.SetCursor(d.database, result.Cursor); err != nil {
		// Keep the in-memory cursor so this run does not re-request seen
		// ids. A restart before a later write succeeds re-processes them.
		fmt.Fprintf(os.Stderr, "Warning: cursor write failed at %d: %v\n", result.Cursor, err)
	}
	d.debugf("poll %s: persisted=%d malformed=%d duplicate=%d cursor=%d",
		runID, result.Persisted, result.Malformed, result.Duplicate, result.Cursor)
}

// ingestDirected parses new lines from DIRECTED.TXT and persists them.
func (d *Daemon) ingestDirected(ctx context.Context) {
	data, err := os.ReadFile(d.config.DirectedPath)
	if err != nil {
		d.debugf("directed: read failed: %v", err)
		return
	}

	result, err := d.parser.Parse(ctx, string(data), d.radioSince)
	if err != nil {
		return
	}
	d.radioSince = result.Since

	changes := types.NewChangeSet()
	for _, rec := range result.Records {
		if err := d.store.Persist(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: persist radio record failed: %v\n", err)
			continue
		}
		changes.Add(rec.Kind())
	}
	if !changes.Empty() {
		d.notifier.RecordsChanged(changes)
		d.debugf("directed: stored %d records", len(result.Records))
	}
}

func (d *Daemon) debugf(format string, args ...any) {
	if d.debug {
		fmt.Fprintf(os.Stderr, "[daemon] "+format+"\n", args...)
	}
}
