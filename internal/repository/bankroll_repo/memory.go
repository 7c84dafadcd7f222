package bankroll_repo

import (
	"context"
	"sort"
	"sync"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
)

// MemoryRepo - хранилище дашборда в памяти (используется без PG_DSN)
type MemoryRepo struct {
	txMtx sync.Mutex

	mtx          sync.RWMutex
	order        []string
	platforms    map[string]model.Platform
	transactions []model.Transaction
	bonuses      map[string]model.Bonus
}

func NewMemoryRepository(platforms []model.Platform, bonuses []model.Bonus) *MemoryRepo {
	r := &MemoryRepo{
		platforms: make(map[string]model.Platform, len(platforms)),
		bonuses:   make(map[string]model.Bonus, len(bonuses)),
	}
	for _, p := range platforms {
		if _, ok := r.platforms[p.ID]; !ok {
			r.order = append(r.order, p.ID)
		}
		r.platforms[p.ID] = p
	}
	for _, b := range bonuses {
		r.bonuses[b.ID] = b
	}
	return r
}

// Do сериализует составные операции записи
func (r *MemoryRepo) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMtx.Lock()
	defer r.txMtx.Unlock()
	return fn(ctx)
}

func (r *MemoryRepo) ListPlatforms(_ context.Context) ([]model.Platform, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]model.Platform, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.platforms[id])
	}
	return out, nil
}

func (r *MemoryRepo) GetPlatform(_ context.Context, id string) (*model.Platform, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	p, ok := r.platforms[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &p, nil
}

// AddToBalance - изменяет баланс на delta. Баланс не может стать отрицательным.
func (r *MemoryRepo) AddToBalance(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	p, ok := r.platforms[id]
	if !ok {
		return decimal.Zero, model.ErrNotFound
	}
	next := p.Balance.Add(delta)
	if next.IsNegative() {
		return p.Balance, model.ErrInsufficientFunds
	}
	p.Balance = next
	r.platforms[id] = p
	return next, nil
}

func (r *MemoryRepo) CreateTransaction(_ context.Context, tx *model.Transaction) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.platforms[tx.PlatformID]; !ok {
		return model.ErrNotFound
	}
	r.transactions = append(r.transactions, *tx)
	return nil
}

// ListTransactions - транзакции площадки, новые первыми. Пустой platformID - все.
func (r *MemoryRepo) ListTransactions(_ context.Context, platformID string) ([]model.Transaction, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]model.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		if platformID == "" || t.PlatformID == platformID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *MemoryRepo) GetBonus(_ context.Context, id string) (*model.Bonus, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	b, ok := r.bonuses[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepo) UpdateBonus(_ context.Context, bonus *model.Bonus) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.bonuses[bonus.ID]; !ok {
		return model.ErrNotFound
	}
	r.bonuses[bonus.ID] = *bonus
	return nil
}
