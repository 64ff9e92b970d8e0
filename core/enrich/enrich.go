// Package enrich derives cross-month signals from chronologically ordered month buckets.
package enrich

import (
	"slices"

	"github.com/huangsam/paysheet/core/ingest"
	"github.com/huangsam/paysheet/schema"
)

// step is the fold state carried from one month to the next.
type step struct {
	prev   *ingest.Bucket
	byID   map[string]schema.EmployeeRecord // prev records keyed by employee id
	stream []schema.EmployeeRecord
}

// Enrich walks the buckets in ascending key order and returns the full record
// stream sorted by month: each month's observations with joiner and increment
// signals, followed by one exit record per employee who vanished since the
// previous month.
func Enrich(buckets map[string]*ingest.Bucket, keys []string) []schema.EmployeeRecord {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)

	state := step{}
	for _, key := range ordered {
		bucket, ok := buckets[key]
		if !ok {
			continue
		}
		state = advance(state, bucket)
	}

	slices.SortStableFunc(state.stream, func(a, b schema.EmployeeRecord) int {
		return a.Month.Date.Compare(b.Month.Date)
	})
	return state.stream
}

// advance folds one month into the state.
func advance(state step, cur *ingest.Bucket) step {
	for _, rec := range cur.Records {
		state.stream = append(state.stream, rec.WithSignals(signalsFor(rec, state)))
	}

	if state.prev != nil {
		for _, prevRec := range state.prev.Records {
			if !cur.Has(prevRec.EmployeeID) {
				state.stream = append(state.stream, schema.NewExit(prevRec, cur.Month))
			}
		}
	}

	byID := make(map[string]schema.EmployeeRecord, len(cur.Records))
	for _, rec := range cur.Records {
		byID[rec.EmployeeID] = rec
	}
	return step{prev: cur, byID: byID, stream: state.stream}
}

// signalsFor compares rec against the previous month.
func signalsFor(rec schema.EmployeeRecord, state step) schema.Signals {
	var s schema.Signals
	if state.prev == nil {
		return s
	}
	s.IsJoiner = !state.prev.Has(rec.EmployeeID)

	prevRec, ok := state.byID[rec.EmployeeID]
	if !ok {
		return s
	}
	prevBasic := prevRec.Pay().BasicSalary
	if prevBasic <= 0 {
		return s
	}
	if diff := rec.Pay().BasicSalary - prevBasic; diff > 0 {
		s.SalaryGrowthPct = diff * 100 / prevBasic
		s.HasIncrement = true
	}
	return s
}
