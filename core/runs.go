package core

import (
	"fmt"
	"time"

	"github.com/huangsam/paysheet/internal/contract"
	"github.com/huangsam/paysheet/schema"
)

// recordRun stores one ingestion run and its monthly rollups when a run store is configured.
// Failures are logged and never abort the command that loaded the dataset.
func recordRun(ds *Dataset, start time.Time, mgr contract.CacheManager) {
	if mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}
	if err := writeRun(store, ds, start); err != nil {
		contract.LogWarn("Failed to record ingestion run", err)
	}
}

func writeRun(store contract.RunStore, ds *Dataset, start time.Time) error {
	runID, err := store.BeginRun(start, ds.Name(), ds.Digest())
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	months := monthRollups(ds, runID)
	for _, m := range months {
		if err := store.RecordMonth(m); err != nil {
			return fmt.Errorf("record month %s: %w", m.MonthKey, err)
		}
	}
	if err := store.EndRun(runID, time.Now(), len(months), len(ds.records)); err != nil {
		return fmt.Errorf("end run: %w", err)
	}
	return nil
}

// monthRollups computes the headline figures of every month of the dataset.
func monthRollups(ds *Dataset, runID int64) []schema.RunMonthRecord {
	rollups := make([]schema.RunMonthRecord, 0, len(ds.months))
	for _, m := range ds.months {
		result := ds.Aggregate([]string{m.Label})
		rec := schema.RunMonthRecord{
			RunID:      runID,
			MonthKey:   m.Key,
			MonthLabel: m.Label,
			Headcount:  int32(result.Snapshot.ActiveHeadcount),
			Joiners:    int32(result.Snapshot.Joiners),
			Exits:      int32(result.Snapshot.Exits),
			Increments: int32(result.Snapshot.Increments),
			TotalCost:  result.Snapshot.TotalCost,
		}
		if len(result.MonthlyTrend) > 0 {
			rec.TotalCTC = result.MonthlyTrend[0].CTC
		}
		rollups = append(rollups, rec)
	}
	return rollups
}
