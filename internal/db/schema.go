package db

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
-- Status reports
CREATE TABLE IF NOT EXISTS statreps (
  datetime TEXT NOT NULL,              -- UTC "YYYY-MM-DD HH:MM:SS"
  callsign TEXT NOT NULL,              -- reporting station (orig station for forwarded)
  groupname TEXT,
  grid TEXT,
  srid TEXT NOT NULL,                  -- sender-assigned report id
  prec TEXT,                           -- precedence label
  status TEXT, commpwr TEXT, pubwtr TEXT, med TEXT, ota TEXT, trav TEXT,
  net TEXT, fuel TEXT, food TEXT, crime TEXT, civil TEXT, political TEXT,
  comments TEXT,
  origin TEXT NOT NULL DEFAULT 'radio',-- 'relay' or 'radio'
  forwarded INTEGER NOT NULL DEFAULT 0,
  frequency INTEGER DEFAULT 0,
  snr INTEGER DEFAULT 0,
  PRIMARY KEY (callsign, srid)
);

CREATE INDEX IF NOT EXISTS idx_statreps_datetime ON statreps(datetime);

-- Alerts
CREATE TABLE IF NOT EXISTS alerts (
  datetime TEXT NOT NULL,
  idnum TEXT NOT NULL,
  callsign TEXT NOT NULL,
  groupname TEXT,
  color TEXT,
  title TEXT,
  message TEXT,
  origin TEXT NOT NULL DEFAULT 'radio',
  frequency INTEGER DEFAULT 0,
  snr INTEGER DEFAULT 0,
  PRIMARY KEY (callsign, idnum, datetime)
);

CREATE INDEX IF NOT EXISTS idx_alerts_datetime ON alerts(datetime);

-- Plain messages and bulletins
CREATE TABLE IF NOT EXISTS messages (
  datetime TEXT NOT NULL,
  idnum TEXT,
  callsign TEXT NOT NULL,
  groupname TEXT,
  message TEXT NOT NULL,
  origin TEXT NOT NULL DEFAULT 'radio',
  frequency INTEGER DEFAULT 0,
  snr INTEGER DEFAULT 0,
  PRIMARY KEY (callsign, datetime, message)
);

CREATE INDEX IF NOT EXISTS idx_messages_datetime ON messages(datetime);

-- Marquee banners
CREATE TABLE IF NOT EXISTS marquees (
  idnum TEXT NOT NULL,
  callsign TEXT NOT NULL,
  groupname TEXT,
  datetime TEXT NOT NULL,
  color TEXT,
  message TEXT,
  PRIMARY KEY (callsign, idnum)
);

-- Member roster built from check-ins
CREATE TABLE IF NOT EXISTS members (
  callsign TEXT PRIMARY KEY,
  datetime TEXT NOT NULL,
  groupname TEXT,
  state TEXT,
  grid TEXT,
  gridlat REAL,
  gridlong REAL
);

-- Check-in log
CREATE TABLE IF NOT EXISTS checkins (
  datetime TEXT NOT NULL,
  callsign TEXT NOT NULL,
  groupname TEXT,
  traffic TEXT,
  state TEXT,
  grid TEXT,
  gridlat REAL,
  gridlong REAL,
  PRIMARY KEY (callsign, datetime)
);

-- Abbreviation expansions for radio-path normalization
CREATE TABLE IF NOT EXISTS abbreviations (
  abbrev TEXT PRIMARY KEY,
  expansion TEXT NOT NULL
);

-- Control state (backbone sync cursor and friends)
CREATE TABLE IF NOT EXISTS control (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

// InitSchema creates all tables if they do not exist.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
