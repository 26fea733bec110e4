package db

import (
	"database/sql"
	"fmt"

	"github.com/commstat/commstat/internal/types"
)

// AlertRow is a stored alert.
type AlertRow struct {
	Datetime  string
	ID        string
	Callsign  string
	Group     string
	Color     string
	Title     string
	Message   string
	Origin    string
	Frequency int64
	SNR       int
}

// InsertAlert stores an alert.
func InsertAlert(conn *sql.DB, rec types.Alert) error {
	_, err := conn.Exec(`
		INSERT OR IGNORE INTO alerts
		(datetime, idnum, callsign, groupname, color, title, message, origin, frequency, snr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Common.Timestamp, rec.ID, rec.Common.Callsign, rec.Common.Group,
		rec.Color, rec.Title, rec.Body, string(rec.Common.Origin),
		rec.Common.Frequency, rec.Common.SNR)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ListAlerts returns stored alerts, newest first.
func ListAlerts(conn *sql.DB, limit int) ([]AlertRow, error) {
	rows, err := conn.Query(`
		SELECT datetime, idnum, callsign, groupname, color, title, message, origin, frequency, snr
		FROM alerts
		ORDER BY datetime DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlertRow
	for rows.Next() {
		var r AlertRow
		var group, color, title, message, origin sql.NullString
		if err := rows.Scan(&r.Datetime, &r.ID, &r.Callsign, &group, &color,
			&title, &message, &origin, &r.Frequency, &r.SNR); err != nil {
			return nil, err
		}
		r.Group = group.String
		r.Color = color.String
		r.Title = title.String
		r.Message = message.String
		r.Origin = origin.String
		out = append(out, r)
	}
	return out, rows.Err()
}
