package temporal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/veonlok/Your-Search-Wrapped/internal/export"
)

// DayStartHour and DayEndHour bound the "day" half of the clock, inclusive.
const (
	DayStartHour = 6
	DayEndHour   = 17
)

const (
	EarlyBird = "Early Bird"
	NightOwl  = "Night Owl"
)

// Weekdays lists heatmap rows in display order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Zone returns a fixed-offset location, e.g. Zone(480) for UTC+8.
func Zone(offsetMinutes int) *time.Location {
	sign := "+"
	abs := offsetMinutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// Bucket holds the calendar attributes of one timestamp in the target zone.
type Bucket struct {
	Year  int
	Month int
	Hour  int
	// Row is the heatmap row, 0 for Monday through 6 for Sunday.
	Row int
}

// BucketOf converts epoch seconds into a Bucket in loc.
func BucketOf(ts float64, loc *time.Location) Bucket {
	sec, frac := math.Modf(ts)
	t := time.Unix(int64(sec), int64(frac*1e9)).In(loc)
	return Bucket{
		Year:  t.Year(),
		Month: int(t.Month()),
		Hour:  t.Hour(),
		Row:   (int(t.Weekday()) + 6) % 7,
	}
}

// Heatmap counts prompts by weekday row and hour.
type Heatmap [7][24]int

// MarshalJSON writes weekday keys Monday through Sunday in order.
func (h Heatmap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range Weekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		row, err := json.Marshal(h[i][:])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", day)
		buf.Write(row)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the weekday keyed form written by MarshalJSON.
func (h *Heatmap) UnmarshalJSON(data []byte) error {
	var m map[string][]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Heatmap
	for i, day := range Weekdays {
		row := m[day]
		if len(row) > 24 {
			return fmt.Errorf("heatmap %s: %d hours", day, len(row))
		}
		copy(out[i][:], row)
	}
	*h = out
	return nil
}

// Summary is the temporal profile of one target year.
type Summary struct {
	Year    int
	Total   int
	Monthly [12]int
	Hourly  [24]int
	Heatmap Heatmap
	Day     int
	Night   int
	// Undated counts records skipped for lacking a usable timestamp.
	Undated int
}

// Chronotype is EarlyBird only when day activity strictly exceeds night activity.
func (s Summary) Chronotype() string {
	if s.Day > s.Night {
		return EarlyBird
	}
	return NightOwl
}

// Aggregator buckets prompt records for one year in one zone.
type Aggregator struct {
	loc  *time.Location
	year int
}

func NewAggregator(loc *time.Location, year int) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc, year: year}
}

// Includes reports whether r is dated and falls in the target year.
func (a *Aggregator) Includes(r export.PromptRecord) bool {
	return r.Dated() && BucketOf(r.Timestamp, a.loc).Year == a.year
}

// InYear returns the records Includes accepts, in order.
func (a *Aggregator) InYear(records []export.PromptRecord) []export.PromptRecord {
	var out []export.PromptRecord
	for _, r := range records {
		if a.Includes(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize builds the monthly, hourly, heatmap and day/night counts.
func (a *Aggregator) Summarize(records []export.PromptRecord) Summary {
	s := Summary{Year: a.year}
	for _, r := range records {
		if !r.Dated() {
			s.Undated++
			continue
		}
		b := BucketOf(r.Timestamp, a.loc)
		if b.Year != a.year {
			continue
		}
		s.Total++
		s.Monthly[b.Month-1]++
		s.Hourly[b.Hour]++
		s.Heatmap[b.Row][b.Hour]++
		if b.Hour >= DayStartHour && b.Hour <= DayEndHour {
			s.Day++
		} else {
			s.Night++
		}
	}
	return s
}
