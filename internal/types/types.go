package types

import "context"

// Origin identifies which ingestion path produced a record. Relay-origin
// text is persisted byte-for-byte (minus non-ASCII); radio-origin text is
// normalized before storage.
type Origin string

const (
	OriginRelay Origin = "relay"
	OriginRadio Origin = "radio"
)

// Kind is the record type discriminator.
type Kind string

const (
	KindStatRep          Kind = "statrep"
	KindForwardedStatRep Kind = "forwarded-statrep"
	KindAlert            Kind = "alert"
	KindMessage          Kind = "message"
	KindBulletin         Kind = "bulletin"
	KindMarquee          Kind = "marquee"
	KindCheckIn          Kind = "checkin"
)

// Message type markers embedded in payload text.
const (
	MarkerStatRep          = "{&%}"
	MarkerForwardedStatRep = "{F%}"
	MarkerAlert            = "{%%}"
	MarkerBulletin         = "{^%}"
	MarkerMarquee          = "{*%}"
	MarkerCheckIn          = "{~%}"
)

// Meta carries the fields common to every record regardless of kind.
type Meta struct {
	Origin    Origin
	Callsign  string
	Timestamp string // UTC, "YYYY-MM-DD HH:MM:SS", as received
	Frequency int64  // Hz
	SNR       int    // dB
	Group     string
}

// Record is the tagged union over the message kinds. Each variant carries
// exactly the fields valid for its kind.
type Record interface {
	Kind() Kind
	Meta() Meta
}

// StatRep is a structured status report.
type StatRep struct {
	Common     Meta
	Grid       string
	Precedence string // human-readable label, already mapped from the 1-5 code
	SRID       string
	Code       string // 12-character status code, always expanded
	Comments   string
}

func (r StatRep) Kind() Kind { return KindStatRep }
func (r StatRep) Meta() Meta { return r.Common }

// ForwardedStatRep is a status report relayed on behalf of another station.
// OrigCallsign is the station the report is about; Common.Callsign is the
// forwarding station.
type ForwardedStatRep struct {
	Common       Meta
	Grid         string
	Precedence   string
	SRID         string
	Code         string
	Comments     string
	OrigCallsign string
}

func (r ForwardedStatRep) Kind() Kind { return KindForwardedStatRep }
func (r ForwardedStatRep) Meta() Meta { return r.Common }

// Alert is a color-coded titled alert.
type Alert struct {
	Common Meta
	ID     string
	Color  string // color code 1-4
	Title  string
	Body   string
}

func (r Alert) Kind() Kind { return KindAlert }
func (r Alert) Meta() Meta { return r.Common }

// PlainMessage is free text with no recognized marker.
type PlainMessage struct {
	Common Meta
	ID     string
	Body   string
}

func (r PlainMessage) Kind() Kind { return KindMessage }
func (r PlainMessage) Meta() Meta { return r.Common }

// Bulletin is a broadcast text message (radio path).
type Bulletin struct {
	Common Meta
	ID     string
	Body   string
}

func (r Bulletin) Kind() Kind { return KindBulletin }
func (r Bulletin) Meta() Meta { return r.Common }

// Marquee is a scrolling banner message (radio path).
type Marquee struct {
	Common Meta
	ID     string
	Color  string
	Body   string
}

func (r Marquee) Kind() Kind { return KindMarquee }
func (r Marquee) Meta() Meta { return r.Common }

// CheckIn is a net check-in with location (radio path).
type CheckIn struct {
	Common  Meta
	Traffic string
	State   string
	Grid    string
	Lat     float64
	Lon     float64
}

func (r CheckIn) Kind() Kind { return KindCheckIn }
func (r CheckIn) Meta() Meta { return r.Common }

// Sink accepts parsed records for persistence. The sink owns a record once
// Persist returns. The record's origin tag tells the sink whether text
// normalization was already applied upstream; relay-origin text must be
// stored as-is.
type Sink interface {
	Persist(ctx context.Context, rec Record) error
}

// Category names a refresh bucket for downstream consumers.
type Category string

const (
	CategoryStatRep Category = "statrep"
	CategoryAlert   Category = "alert"
	CategoryMessage Category = "message"
	CategoryMember  Category = "member"
)

// ChangeSet records which categories received at least one new record in a
// batch, and whether map-relevant data (anything carrying a grid) changed.
type ChangeSet struct {
	Categories map[Category]bool
	MapChanged bool
}

// NewChangeSet returns an empty change set.
func NewChangeSet() ChangeSet {
	return ChangeSet{Categories: make(map[Category]bool)}
}

// Add marks the category for a record kind.
func (c *ChangeSet) Add(kind Kind) {
	switch kind {
	case KindStatRep, KindForwardedStatRep:
		c.Categories[CategoryStatRep] = true
		c.MapChanged = true
	case KindAlert:
		c.Categories[CategoryAlert] = true
	case KindMessage, KindBulletin, KindMarquee:
		c.Categories[CategoryMessage] = true
	case KindCheckIn:
		c.Categories[CategoryMember] = true
		c.MapChanged = true
	}
}

// Empty reports whether no category changed.
func (c ChangeSet) Empty() bool {
	return len(c.Categories) == 0
}

// Notifier receives the change set after a batch so interactive consumers
// can decide what to refresh. Implementations that touch UI state must
// marshal onto their own thread; the ingester calls this from the poll
// goroutine.
type Notifier interface {
	RecordsChanged(changes ChangeSet)
}
