package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/commstat/commstat/internal/types"
)

// Store adapts the traffic database to the record sink interface used by
// the ingestion paths. Records arrive already cleaned; relay-origin text is
// stored exactly as received.
type Store struct {
	conn *sql.DB
}

// NewStore wraps an open traffic database.
func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// DB exposes the underlying connection for queries.
func (s *Store) DB() *sql.DB {
	return s.conn
}

// Persist dispatches a record to its table by kind.
func (s *Store) Persist(_ context.Context, rec types.Record) error {
	switch r := rec.(type) {
	case types.StatRep:
		return InsertStatRep(s.conn, r)
	case types.ForwardedStatRep:
		return InsertForwardedStatRep(s.conn, r)
	case types.Alert:
		return InsertAlert(s.conn, r)
	case types.PlainMessage:
		return InsertMessage(s.conn, r)
	case types.Bulletin:
		return InsertBulletin(s.conn, r)
	case types.Marquee:
		return InsertMarquee(s.conn, r)
	case types.CheckIn:
		return InsertCheckIn(s.conn, r)
	default:
		return fmt.Errorf("unknown record kind %q", rec.Kind())
	}
}
