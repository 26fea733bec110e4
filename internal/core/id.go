package core

import (
	"strconv"
	"time"
)

// TimeBasedID generates the short numeric id stamped on outgoing alerts and
// messages. Collisions across stations are tolerated; records key on
// (callsign, id).
func TimeBasedID() string {
	return strconv.FormatInt(time.Now().Unix()%100000, 10)
}

// UTCNow returns the current time in the wire datetime format.
func UTCNow() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
