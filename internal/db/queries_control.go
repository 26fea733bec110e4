package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// cursorKey holds the highest backbone message id already processed.
const cursorKey = "data_id"

// GetCursor reads the backbone sync cursor. A missing value is 0.
func GetCursor(conn *sql.DB) (int64, error) {
	value, err := getControl(conn, cursorKey)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("control %s holds %q: %w", cursorKey, value, err)
	}
	return cursor, nil
}

// SetCursor writes the backbone sync cursor. The cursor never moves
// backwards; a smaller value than the stored one is ignored.
func SetCursor(conn *sql.DB, cursor int64) error {
	current, err := GetCursor(conn)
	if err != nil {
		return err
	}
	if cursor < current {
		return nil
	}
	return setControl(conn, cursorKey, strconv.FormatInt(cursor, 10))
}

func getControl(conn *sql.DB, key string) (string, error) {
	var value string
	err := conn.QueryRow(`SELECT value FROM control WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get control %s: %w", key, err)
	}
	return value, nil
}

func setControl(conn *sql.DB, key, value string) error {
	_, err := conn.Exec(`
		INSERT INTO control (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set control %s: %w", key, err)
	}
	return nil
}

// GetAbbreviations loads operator-defined abbreviation expansions for
// radio-path normalization.
func GetAbbreviations(conn *sql.DB) (map[string]string, error) {
	rows, err := conn.Query(`SELECT abbrev, expansion FROM abbreviations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var abbrev, expansion string
		if err := rows.Scan(&abbrev, &expansion); err != nil {
			return nil, err
		}
		out[abbrev] = expansion
	}
	return out, rows.Err()
}
