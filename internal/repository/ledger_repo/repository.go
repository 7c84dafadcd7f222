package ledger_repo

import (
	"sync"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

const defaultCapacity = 50

// LedgerRepo - ограниченный журнал спинов в памяти.
// Порядок: самая свежая запись первой.
type LedgerRepo struct {
	mtx      sync.RWMutex
	capacity int
	entries  []model.LedgerEntry
}

// NewLedgerRepository Конструктор журнала с заданной емкостью
func NewLedgerRepository(capacity int) *LedgerRepo {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &LedgerRepo{
		capacity: capacity,
		entries:  make([]model.LedgerEntry, 0, capacity),
	}
}

// Append добавляет запись в начало и отбрасывает самые старые сверх емкости
func (r *LedgerRepo) Append(entry model.LedgerEntry) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.entries = append(r.entries, model.LedgerEntry{})
	copy(r.entries[1:], r.entries)
	r.entries[0] = entry

	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
}

// Clear очищает журнал вне зависимости от длины
func (r *LedgerRepo) Clear() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.entries = r.entries[:0]
}

// List возвращает копию журнала
func (r *LedgerRepo) List() []model.LedgerEntry {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]model.LedgerEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *LedgerRepo) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.entries)
}

// Stats Пересчитывает статистику по окну журнала
func (r *LedgerRepo) Stats() model.LedgerStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	stats := model.LedgerStats{
		Spins:    len(r.entries),
		TotalBet: decimal.Zero,
		TotalWin: decimal.Zero,
	}
	for _, e := range r.entries {
		stats.TotalBet = stats.TotalBet.Add(e.Bet)
		stats.TotalWin = stats.TotalWin.Add(e.Win)
		if e.Win.IsPositive() {
			stats.Wins++
		}
	}

	if stats.TotalBet.IsPositive() {
		stats.RTP = stats.TotalWin.Div(stats.TotalBet).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	if stats.Spins > 0 {
		stats.HitFrequency = float64(stats.Wins) / float64(stats.Spins)
	}
	return stats
}
