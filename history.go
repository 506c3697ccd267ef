package valutatrade

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FetchMeta captures how a quote was obtained from a provider.
type FetchMeta struct {
	RequestMS  int64
	StatusCode int
	ETag       string
}

// Record is one append-only history entry: a rate observed at a point in time.
// Its ID is derived from the pair and the timestamp, which makes replayed
// fetches idempotent.
type Record struct {
	ID        string
	From      string
	To        string
	Value     decimal.Decimal
	Timestamp time.Time
	Source    string
	Meta      FetchMeta
}

// NewRecord builds a history record for a rate and its fetch metadata.
func NewRecord(r Rate, meta FetchMeta) Record {
	return Record{
		ID:        fmt.Sprintf("%s_%s_%d", r.From, r.To, r.UpdatedAt.Unix()),
		From:      r.From,
		To:        r.To,
		Value:     r.Value,
		Timestamp: r.UpdatedAt,
		Source:    r.Source,
		Meta:      meta,
	}
}

// History stores a chronological series of rate records.
// It ensures that IDs are unique and the series is always sorted.
type History struct {
	records []Record
}

// NewHistory creates an empty history.
func NewHistory() *History { return &History{} }

// Len returns the number of records in the history.
func (h *History) Len() int { return len(h.records) }

// Latest returns the most recent record, or false when the history is empty.
func (h *History) Latest() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[len(h.records)-1], true
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological struct{ *History }

func (s chronological) Len() int { return len(s.records) }
func (s chronological) Less(i, j int) bool {
	if !s.records[i].Timestamp.Equal(s.records[j].Timestamp) {
		return s.records[i].Timestamp.Before(s.records[j].Timestamp)
	}
	return s.records[i].ID < s.records[j].ID
}
func (s chronological) Swap(i, j int) {
	s.records[i], s.records[j] = s.records[j], s.records[i]
}

// sort sorts the history in chronological order.
func (h *History) sort() { sort.Sort(chronological{h}) }

// Append adds a record to the history.
//
// A record whose ID is already present is dropped and Append returns false.
func (h *History) Append(rec Record) bool {
	if slices.ContainsFunc(h.records, func(r Record) bool { return r.ID == rec.ID }) {
		return false
	}
	h.records = append(h.records, rec)
	h.sort()
	return true
}

// Records returns an iterator over all records, in chronological order.
func (h *History) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, rec := range h.records {
			if !yield(rec) {
				return
			}
		}
	}
}

// Pair returns the records for one ordered pair, in chronological order.
// A zero since keeps everything; otherwise only records at or after it.
func (h *History) Pair(pair string, since time.Time) []Record {
	var list []Record
	for _, rec := range h.records {
		if rec.From+"_"+rec.To != pair {
			continue
		}
		if !since.IsZero() && rec.Timestamp.Before(since) {
			continue
		}
		list = append(list, rec)
	}
	return list
}

// ValueAsOf returns the pair's rate at a given time, or the most recent value
// before it. It returns false when no record exists on or before that time.
func (h *History) ValueAsOf(pair string, t time.Time) (decimal.Decimal, bool) {
	records := h.Pair(pair, time.Time{})
	// The records are sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(records, t, func(r Record, t time.Time) int {
		return r.Timestamp.Compare(t)
	})
	if found {
		return records[i].Value, true
	}
	// Not found. `i` is the index where `t` would be inserted.
	// The value we want is at `i-1`, the last record before the target time.
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return records[i-1].Value, true
}

// Series returns the pair's records as parallel time/value slices for charting.
func (h *History) Series(pair string, since time.Time) (times []time.Time, values []float64) {
	for _, rec := range h.Pair(pair, since) {
		times = append(times, rec.Timestamp)
		values = append(values, rec.Value.InexactFloat64())
	}
	return times, values
}
