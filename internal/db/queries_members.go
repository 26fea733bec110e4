package db

import (
	"database/sql"
	"fmt"

	"github.com/commstat/commstat/internal/types"
)

// MemberRow is a roster entry built from check-ins.
type MemberRow struct {
	Callsign string
	Datetime string
	Group    string
	State    string
	Grid     string
	Lat      float64
	Lon      float64
}

// InsertCheckIn records a check-in and upserts the member roster. Stations
// sharing a grid square get a small coordinate offset so map markers do
// not stack.
func InsertCheckIn(conn *sql.DB, rec types.CheckIn) error {
	lat, lon := rec.Lat, rec.Lon

	var sameGrid int
	err := conn.QueryRow(`SELECT COUNT(*) FROM members WHERE grid = ? AND callsign != ?`,
		rec.Grid, rec.Common.Callsign).Scan(&sameGrid)
	if err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}
	if sameGrid > 0 {
		lat += float64(sameGrid) * 0.010
		lon += float64(sameGrid) * 0.010
	}

	_, err = conn.Exec(`
		INSERT OR REPLACE INTO members
		(callsign, datetime, groupname, state, grid, gridlat, gridlong)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Common.Callsign, rec.Common.Timestamp, rec.Common.Group,
		rec.State, rec.Grid, lat, lon)
	if err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}

	_, err = conn.Exec(`
		INSERT OR IGNORE INTO checkins
		(datetime, callsign, groupname, traffic, state, grid, gridlat, gridlong)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Common.Timestamp, rec.Common.Callsign, rec.Common.Group,
		rec.Traffic, rec.State, rec.Grid, lat, lon)
	if err != nil {
		return fmt.Errorf("insert checkin: %w", err)
	}
	return nil
}

// ListMembers returns the roster ordered by callsign.
func ListMembers(conn *sql.DB) ([]MemberRow, error) {
	rows, err := conn.Query(`
		SELECT callsign, datetime, groupname, state, grid, gridlat, gridlong
		FROM members
		ORDER BY callsign
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MemberRow
	for rows.Next() {
		var r MemberRow
		var group, state, grid sql.NullString
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&r.Callsign, &r.Datetime, &group, &state, &grid, &lat, &lon); err != nil {
			return nil, err
		}
		r.Group = group.String
		r.State = state.String
		r.Grid = grid.String
		r.Lat = lat.Float64
		r.Lon = lon.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}
