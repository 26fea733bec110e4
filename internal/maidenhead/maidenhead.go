// Package maidenhead converts Maidenhead grid locators to coordinates for
// map placement of check-in records.
package maidenhead

import (
	"fmt"
	"strings"
)

// ToLocation converts a 2-, 4-, or 6-character grid locator to latitude and
// longitude in degrees. When center is true the returned point is the
// center of the grid square rather than its southwest corner.
func ToLocation(grid string, center bool) (lat, lon float64, err error) {
	grid = strings.TrimSpace(grid)
	if len(grid) != 2 && len(grid) != 4 && len(grid) != 6 {
		return 0, 0, fmt.Errorf("grid locator must be 2, 4 or 6 characters, got %q", grid)
	}
	if len(grid) == 6 {
		grid = strings.ToUpper(grid[:4]) + strings.ToLower(grid[4:])
	} else {
		grid = strings.ToUpper(grid)
	}

	f0, f1 := grid[0], grid[1]
	if f0 < 'A' || f0 > 'R' || f1 < 'A' || f1 > 'R' {
		return 0, 0, fmt.Errorf("invalid field characters in grid %q", grid)
	}
	lon = float64(f0-'A')*20 - 180
	lat = float64(f1-'A')*10 - 90
	lonSize, latSize := 20.0, 10.0

	if len(grid) >= 4 {
		s0, s1 := grid[2], grid[3]
		if s0 < '0' || s0 > '9' || s1 < '0' || s1 > '9' {
			return 0, 0, fmt.Errorf("invalid square digits in grid %q", grid)
		}
		lon += float64(s0-'0') * 2
		lat += float64(s1 - '0')
		lonSize, latSize = 2.0, 1.0
	}

	if len(grid) == 6 {
		u0, u1 := grid[4], grid[5]
		if u0 < 'a' || u0 > 'x' || u1 < 'a' || u1 > 'x' {
			return 0, 0, fmt.Errorf("invalid subsquare characters in grid %q", grid)
		}
		lon += float64(u0-'a') * (2.0 / 24)
		lat += float64(u1-'a') * (1.0 / 24)
		lonSize, latSize = 2.0/24, 1.0/24
	}

	if center {
		lon += lonSize / 2
		lat += latSize / 2
	}
	return lat, lon, nil
}
