package settlement

import (
	"sort"
	"time"

	"go-salon/internal/commission"

	"github.com/google/uuid"
)

// ExpertNameResolver maps an expert id to display name and alias for
// the entry snapshot. Unknown experts still aggregate, with the id as
// a fallback name, so a deactivated expert never blocks a close.
type ExpertNameResolver func(expertID uuid.UUID) (name string, alias string, ok bool)

// buildEntries groups commission records by expert and rolls up the
// per-expert totals. Entry order is deterministic (by expert name) so
// repeated closings over unchanged records produce identical snapshots.
func buildEntries(periodID, businessID uuid.UUID, records []commission.CommissionRecord, resolve ExpertNameResolver, now time.Time) []ExpertPeriodEntry {
	grouped := make(map[uuid.UUID][]commission.CommissionRecord)
	for _, rec := range records {
		grouped[rec.ExpertID] = append(grouped[rec.ExpertID], rec)
	}

	entries := make([]ExpertPeriodEntry, 0, len(grouped))
	for expertID, group := range grouped {
		entry := ExpertPeriodEntry{
			ID:         uuid.New(),
			PeriodID:   periodID,
			BusinessID: businessID,
			ExpertID:   expertID,
			Status:     EntryStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		name, alias, ok := resolve(expertID)
		if !ok {
			name = expertID.String()
		}
		entry.ExpertName = name
		entry.ExpertAlias = alias

		entry.CommissionIDs = make([]string, 0, len(group))
		for _, rec := range group {
			entry.CommissionIDs = append(entry.CommissionIDs, rec.ID.String())
			entry.TotalCommissions += rec.CommissionAmount
			entry.CommissionCount++

			switch rec.Type {
			case commission.TypeService:
				entry.ServiceCommissions += rec.CommissionAmount
			case commission.TypeRetail:
				entry.RetailCommissions += rec.CommissionAmount
			case commission.TypeExceptional:
				entry.ExceptionalCommissions += rec.CommissionAmount
			}
		}
		sort.Strings(entry.CommissionIDs)

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ExpertName != entries[j].ExpertName {
			return entries[i].ExpertName < entries[j].ExpertName
		}
		return entries[i].ExpertID.String() < entries[j].ExpertID.String()
	})
	return entries
}

// Summary is the derived period rollup. It is recomputed from the
// entries after every mutation, never maintained incrementally.
type Summary struct {
	TotalExperts     int
	TotalCommissions int64
	TotalCount       int
	PendingAmount    int64
	ApprovedAmount   int64
	PaidAmount       int64
	CancelledAmount  int64
}

func RecomputeSummary(entries []ExpertPeriodEntry) Summary {
	var s Summary
	s.TotalExperts = len(entries)
	for _, e := range entries {
		s.TotalCommissions += e.TotalCommissions
		s.TotalCount += e.CommissionCount

		switch e.Status {
		case EntryStatusPending:
			s.PendingAmount += e.TotalCommissions
		case EntryStatusApproved:
			s.ApprovedAmount += e.TotalCommissions
		case EntryStatusPaid:
			s.PaidAmount += e.TotalCommissions
		case EntryStatusCancelled:
			s.CancelledAmount += e.TotalCommissions
		}
	}
	return s
}

// commissionIDSet flattens the entry id lists for a cascade.
func commissionIDSet(entries []ExpertPeriodEntry) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		for _, id := range e.CommissionIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
