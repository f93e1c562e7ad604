package ledger

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/pkg/utils"
)

// Hold is a quantity of one batch sitting in a caller's unconfirmed selection.
type Hold struct {
	BatchID  uuid.UUID
	Quantity int
}

// AvailableBatch is the batch a search offers for one product name.
type AvailableBatch struct {
	Batch     entity.ProductBatch `json:"batch"`
	Available int                 `json:"available"`
}

// SelectFIFO returns, per product name matching query, the batch with the
// earliest intake that still has units once holds are subtracted.
//
// Matching is a case and accent insensitive substring test. Ties on intake
// fall back to creation time and then id. Results are ordered by name.
func SelectFIFO(batches []entity.ProductBatch, query string, holds []Hold) []AvailableBatch {
	held := make(map[uuid.UUID]int, len(holds))
	for _, h := range holds {
		if h.Quantity > 0 {
			held[h.BatchID] += h.Quantity
		}
	}

	needle := utils.NormalizeName(query)
	best := make(map[string]AvailableBatch)
	for _, b := range batches {
		key := utils.NormalizeName(b.Name)
		if needle != "" && !strings.Contains(key, needle) {
			continue
		}
		available := b.Remaining - held[b.ID]
		if available <= 0 {
			continue
		}
		current, ok := best[key]
		if !ok || earlier(b, current.Batch) {
			best[key] = AvailableBatch{Batch: b, Available: available}
		}
	}

	out := make([]AvailableBatch, 0, len(best))
	for _, ab := range best {
		out = append(out, ab)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := utils.NormalizeName(out[i].Batch.Name), utils.NormalizeName(out[j].Batch.Name)
		return ki < kj
	})
	return out
}

func earlier(a, b entity.ProductBatch) bool {
	if !a.IntakeAt.Equal(b.IntakeAt) {
		return a.IntakeAt.Before(b.IntakeAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
