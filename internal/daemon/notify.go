package daemon

import (
	"sort"

	"github.com/commstat/commstat/internal/types"
	"github.com/gen2brain/beeep"
)

// refreshNotifier receives batch change sets. It logs which categories need
// a refresh and raises a desktop notification when an alert arrived.
// Interactive consumers subscribe to the same change sets and marshal onto
// their own thread; this runs on the poll goroutine.
type refreshNotifier struct {
	notify bool
	debugf func(format string, args ...any)
}

func (n *refreshNotifier) RecordsChanged(changes types.ChangeSet) {
	categories := make([]string, 0, len(changes.Categories))
	for category := range changes.Categories {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)
	n.debugf("refresh: categories=%v map=%v", categories, changes.MapChanged)

	if n.notify && changes.Categories[types.CategoryAlert] {
		if err := beeep.Notify("CommStat", "New alert received", ""); err != nil {
			n.debugf("notification failed: %v", err)
		}
	}
}
