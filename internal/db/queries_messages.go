package db

import (
	"database/sql"
	"fmt"

	"github.com/commstat/commstat/internal/types"
)

// MessageRow is a stored plain message or bulletin.
type MessageRow struct {
	Datetime  string
	ID        string
	Callsign  string
	Group     string
	Message   string
	Origin    string
	Frequency int64
	SNR       int
}

// InsertMessage stores a plain message.
func InsertMessage(conn *sql.DB, rec types.PlainMessage) error {
	return insertMessage(conn, rec.Common, rec.ID, rec.Body)
}

// InsertBulletin stores a bulletin in the messages table; bulletins and
// plain messages share the message feed.
func InsertBulletin(conn *sql.DB, rec types.Bulletin) error {
	return insertMessage(conn, rec.Common, rec.ID, rec.Body)
}

func insertMessage(conn *sql.DB, meta types.Meta, id, body string) error {
	_, err := conn.Exec(`
		INSERT OR IGNORE INTO messages
		(datetime, idnum, callsign, groupname, message, origin, frequency, snr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.Timestamp, id, meta.Callsign, meta.Group, body,
		string(meta.Origin), meta.Frequency, meta.SNR)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// InsertMarquee stores a marquee banner, replacing any previous banner with
// the same id from the same station.
func InsertMarquee(conn *sql.DB, rec types.Marquee) error {
	_, err := conn.Exec(`
		INSERT OR REPLACE INTO marquees
		(idnum, callsign, groupname, datetime, color, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Common.Callsign, rec.Common.Group, rec.Common.Timestamp,
		rec.Color, rec.Body)
	if err != nil {
		return fmt.Errorf("insert marquee: %w", err)
	}
	return nil
}

// ListMessages returns stored messages, newest first.
func ListMessages(conn *sql.DB, limit int) ([]MessageRow, error) {
	rows, err := conn.Query(`
		SELECT datetime, idnum, callsign, groupname, message, origin, frequency, snr
		FROM messages
		ORDER BY datetime DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MessageRow
	for rows.Next() {
		var r MessageRow
		var id, group, origin sql.NullString
		if err := rows.Scan(&r.Datetime, &id, &r.Callsign, &group, &r.Message,
			&origin, &r.Frequency, &r.SNR); err != nil {
			return nil, err
		}
		r.ID = id.String
		r.Group = group.String
		r.Origin = origin.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestMarquee returns the most recent marquee banner, or nil.
func LatestMarquee(conn *sql.DB) (*types.Marquee, error) {
	row := conn.QueryRow(`
		SELECT idnum, callsign, groupname, datetime, color, message
		FROM marquees
		ORDER BY datetime DESC
		LIMIT 1
	`)
	var rec types.Marquee
	var group, color, message sql.NullString
	err := row.Scan(&rec.ID, &rec.Common.Callsign, &group, &rec.Common.Timestamp, &color, &message)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Common.Group = group.String
	rec.Color = color.String
	rec.Body = message.String
	return &rec, nil
}
