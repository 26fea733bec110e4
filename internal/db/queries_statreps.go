package db

import (
	"database/sql"
	"fmt"

	"github.com/commstat/commstat/internal/statrep"
	"github.com/commstat/commstat/internal/types"
)

// StatRepRow is a stored status report.
type StatRepRow struct {
	Datetime   string
	Callsign   string
	Group      string
	Grid       string
	SRID       string
	Precedence string
	Code       string
	Comments   string
	Origin     string
	Forwarded  bool
	Frequency  int64
	SNR        int
}

// InsertStatRep stores a status report. Duplicate (callsign, srid) pairs
// are ignored so a report heard on both paths lands once.
func InsertStatRep(conn *sql.DB, rec types.StatRep) error {
	return insertStatRep(conn, rec.Common, rec.Common.Callsign, rec.Grid, rec.Precedence,
		rec.SRID, rec.Code, rec.Comments, false)
}

// InsertForwardedStatRep stores a forwarded report under the originating
// station's callsign, the way the live feed displays it.
func InsertForwardedStatRep(conn *sql.DB, rec types.ForwardedStatRep) error {
	return insertStatRep(conn, rec.Common, rec.OrigCallsign, rec.Grid, rec.Precedence,
		rec.SRID, rec.Code, rec.Comments, true)
}

func insertStatRep(conn *sql.DB, meta types.Meta, callsign, grid, prec, srid, code, comments string, forwarded bool) error {
	fields, err := statrep.Parse(code, forwarded)
	if err != nil {
		return fmt.Errorf("insert statrep: %w", err)
	}

	_, err = conn.Exec(`
		INSERT OR IGNORE INTO statreps
		(datetime, callsign, groupname, grid, srid, prec, status, commpwr, pubwtr,
		 med, ota, trav, net, fuel, food, crime, civil, political, comments,
		 origin, forwarded, frequency, snr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.Timestamp, callsign, meta.Group, grid, srid, prec,
		string(fields.Status), string(fields.CommPower), string(fields.PubWater),
		string(fields.Medical), string(fields.OTA), string(fields.Travel),
		string(fields.Net), string(fields.Fuel), string(fields.Food),
		string(fields.Crime), string(fields.Civil), string(fields.Political),
		comments, string(meta.Origin), boolToInt(forwarded), meta.Frequency, meta.SNR)
	if err != nil {
		return fmt.Errorf("insert statrep: %w", err)
	}
	return nil
}

// ListStatReps returns stored reports, newest first.
func ListStatReps(conn *sql.DB, limit int) ([]StatRepRow, error) {
	rows, err := conn.Query(`
		SELECT datetime, callsign, groupname, grid, srid, prec,
		       status || commpwr || pubwtr || med || ota || trav ||
		       net || fuel || food || crime || civil || political,
		       comments, origin, forwarded, frequency, snr
		FROM statreps
		ORDER BY datetime DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatRepRow
	for rows.Next() {
		var r StatRepRow
		var group, grid, prec, comments, origin sql.NullString
		var forwarded int
		if err := rows.Scan(&r.Datetime, &r.Callsign, &group, &grid, &r.SRID, &prec,
			&r.Code, &comments, &origin, &forwarded, &r.Frequency, &r.SNR); err != nil {
			return nil, err
		}
		r.Group = group.String
		r.Grid = grid.String
		r.Precedence = prec.String
		r.Comments = comments.String
		r.Origin = origin.String
		r.Forwarded = forwarded != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
