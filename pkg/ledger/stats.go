package ledger

import "github.com/shopspring/decimal"

// Stats is a pure aggregate over the ledger, recomputed whenever entries
// change. It is never persisted as a source of truth.
type Stats struct {
	Total           int               `json:"total"`
	Pending         int               `json:"pending"`
	Confirmed       int               `json:"confirmed"`
	Failed          int               `json:"failed"`
	ConfirmedVolume decimal.Decimal   `json:"confirmed_volume"`
	ConfirmedByType map[EntryType]int `json:"confirmed_by_type"`
}

// ComputeStats derives statistics from a set of entries. The result is
// order-independent. Approval entries carry no transfer value and are
// excluded from the volume sum.
func ComputeStats(entries []*Entry) Stats {
	stats := Stats{
		ConfirmedVolume: decimal.Zero,
		ConfirmedByType: make(map[EntryType]int),
	}

	for _, entry := range entries {
		stats.Total++
		switch entry.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
			stats.ConfirmedByType[entry.Type]++
			if entry.Type != TypeTokenApproval {
				stats.ConfirmedVolume = stats.ConfirmedVolume.Add(entry.Amount)
			}
		case StatusFailed:
			stats.Failed++
		}
	}

	return stats
}
