package slot

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"quant_terminal/internal/events"
	"quant_terminal/internal/logger"
	"quant_terminal/internal/model"
	"quant_terminal/internal/repository/ledger_repo"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSymbols = []model.Symbol{
	{ID: "diamond", Value: 50},
	{ID: "gold", Value: 20},
	{ID: "cherry", Value: 10},
	{ID: "seven", Value: 100},
	{ID: "bell", Value: 30},
	{ID: "star", Value: 40},
}

type testConfig struct {
	balance int64
	settle  time.Duration
	tick    time.Duration
}

func (c testConfig) InitialBalance() decimal.Decimal { return decimal.NewFromInt(c.balance) }
func (c testConfig) InitialBet() decimal.Decimal     { return decimal.NewFromInt(10) }
func (c testConfig) BetStep() decimal.Decimal        { return decimal.NewFromInt(10) }
func (c testConfig) BetFloor() decimal.Decimal       { return decimal.NewFromInt(10) }
func (c testConfig) ReferenceBet() decimal.Decimal   { return decimal.NewFromInt(10) }
func (c testConfig) SettleDelay() time.Duration      { return c.settle }
func (c testConfig) TickInterval() time.Duration     { return c.tick }
func (c testConfig) LedgerCapacity() int             { return 50 }
func (c testConfig) Symbols() []model.Symbol         { return testSymbols }

// scriptedRNG отдает заранее заданные индексы по кругу
type scriptedRNG struct {
	mtx  sync.Mutex
	seq  []int
	next int
}

func (r *scriptedRNG) IntN(n int) int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	v := r.seq[r.next%len(r.seq)] % n
	r.next++
	return v
}

// middleRow builds a draw sequence whose payline is a, b, c.
func middleRow(a, b, c int) *scriptedRNG {
	return &scriptedRNG{seq: []int{0, a, 0, 0, b, 0, 0, c, 0}}
}

func newTestService(t *testing.T, cfg testConfig, opts ...Option) (*serv, *ledger_repo.LedgerRepo) {
	t.Helper()
	ledger := ledger_repo.NewLedgerRepository(50)
	s := NewSlotService(cfg, ledger, opts...).(*serv)
	return s, ledger
}

func TestSpin_MatchingPaylinePays(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 100}, WithRandomSource(middleRow(3, 3, 3)))

	outcome, err := s.Spin(context.Background(), decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, "100", outcome.Payout.String())
	assert.Equal(t, "190", outcome.Balance.String())
	assert.Equal(t, "seven", outcome.Grid.Payline()[0].ID)

	entries := ledger.List()
	require.Len(t, entries, 1)
	assert.Equal(t, outcome.EntryID, entries[0].ID)
	assert.Equal(t, "10", entries[0].Bet.String())
	assert.Equal(t, "100", entries[0].Win.String())
	assert.Equal(t, "190", entries[0].Balance.String())

	state := s.State()
	assert.False(t, state.Spinning)
	assert.Equal(t, "190", state.Balance.String())
	assert.Equal(t, "100", state.LastWin.String())
}

func TestSpin_LogsEntryID(t *testing.T) {
	var buf bytes.Buffer
	s, _ := newTestService(t, testConfig{balance: 100}, WithLogger(zerolog.New(&buf)))

	outcome, err := s.Spin(context.Background(), decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"`+logger.EntryIDKey+`":"`+outcome.EntryID+`"`)
	assert.Contains(t, buf.String(), "spin settled")
}

func TestSpin_MismatchedPaylineLosesBet(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 100}, WithRandomSource(middleRow(1, 2, 5)))

	outcome, err := s.Spin(context.Background(), decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.True(t, outcome.Payout.IsZero())
	assert.Equal(t, "90", outcome.Balance.String())
	require.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.List()[0].Win.IsZero())
}

func TestSpin_PayoutScalesWithBet(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100}, WithRandomSource(middleRow(0, 0, 0)))

	outcome, err := s.Spin(context.Background(), decimal.NewFromInt(25))
	require.NoError(t, err)

	// 50 * 25 / 10
	assert.Equal(t, "125", outcome.Payout.String())
	assert.Equal(t, "200", outcome.Balance.String())
}

func TestRequestSpin_InsufficientFundsIsRejected(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 5})

	ch, err := s.RequestSpin(context.Background(), decimal.NewFromInt(10))
	require.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Nil(t, ch)

	assert.Equal(t, "5", s.State().Balance.String())
	assert.False(t, s.State().Spinning)
	assert.Equal(t, 0, ledger.Len())
}

func TestRequestSpin_InvalidBet(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100})

	_, err := s.RequestSpin(context.Background(), decimal.NewFromInt(-10))
	require.ErrorIs(t, err, model.ErrInvalidBet)
	assert.Equal(t, "100", s.State().Balance.String())
}

func TestRequestSpin_ZeroBetUsesSessionBet(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100}, WithRandomSource(middleRow(1, 2, 5)))
	s.AdjustBet(2)

	outcome, err := s.Spin(context.Background(), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "30", outcome.Bet.String())
	assert.Equal(t, "70", outcome.Balance.String())
}

func TestRequestSpin_RejectedWhileSpinning(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 100, settle: 50 * time.Millisecond})

	ch, err := s.RequestSpin(context.Background(), decimal.NewFromInt(10))
	require.NoError(t, err)

	// escrow happens at start
	state := s.State()
	assert.True(t, state.Spinning)
	assert.Equal(t, "90", state.Balance.String())
	assert.True(t, state.LastWin.IsZero())
	assert.False(t, state.SpinStartedAt.IsZero())

	_, err = s.RequestSpin(context.Background(), decimal.NewFromInt(10))
	require.ErrorIs(t, err, model.ErrSpinInProgress)
	assert.Equal(t, "90", s.State().Balance.String())

	require.ErrorIs(t, s.Reset(), model.ErrSpinInProgress)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("spin did not settle")
	}
	assert.Equal(t, 1, ledger.Len())
	assert.False(t, s.State().Spinning)
}

func TestRequestSpin_ConcurrentCallsDebitOnce(t *testing.T) {
	const callers = 16
	s, ledger := newTestService(t, testConfig{balance: 1000, settle: 300 * time.Millisecond},
		WithRandomSource(middleRow(1, 2, 5)))

	var (
		wg       sync.WaitGroup
		mtx      sync.Mutex
		accepted []<-chan model.SpinOutcome
		rejected int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ch, err := s.RequestSpin(context.Background(), decimal.NewFromInt(10))

			mtx.Lock()
			defer mtx.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, model.ErrSpinInProgress)
				rejected++
				return
			}
			accepted = append(accepted, ch)
		}()
	}
	close(start)
	wg.Wait()

	require.Len(t, accepted, 1)
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, "990", s.State().Balance.String())

	select {
	case <-accepted[0]:
	case <-time.After(2 * time.Second):
		t.Fatal("spin did not settle")
	}
	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, "990", s.State().Balance.String())
	assert.False(t, s.State().Spinning)
}

func TestSpin_CancelledWaitStillSettles(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 100, settle: 30 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := s.Spin(ctx, decimal.NewFromInt(10))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Eventually(t, func() bool {
		return ledger.Len() == 1 && !s.State().Spinning
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSpin_LedgerKeepsFiftyNewestFirst(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 1000}, WithRandomSource(middleRow(1, 2, 5)))

	var first, last string
	for i := 0; i < 51; i++ {
		outcome, err := s.Spin(context.Background(), decimal.NewFromInt(10))
		require.NoError(t, err)
		if i == 0 {
			first = outcome.EntryID
		}
		last = outcome.EntryID
	}

	entries := ledger.List()
	require.Len(t, entries, 50)
	assert.Equal(t, last, entries[0].ID)
	for _, e := range entries {
		assert.NotEqual(t, first, e.ID)
	}
	assert.Equal(t, "490", entries[0].Balance.String())
}

func TestSpin_BalanceAndPayoutInvariants(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 5000}, WithRandomSource(NewSeededRNG(42)))

	bet := decimal.NewFromInt(20)
	allowed := map[string]bool{"0": true}
	for _, sym := range testSymbols {
		allowed[decimal.NewFromInt(sym.Value).Mul(bet).Div(decimal.NewFromInt(10)).String()] = true
	}

	for i := 0; i < 300; i++ {
		before := s.State().Balance
		outcome, err := s.Spin(context.Background(), bet)
		require.NoError(t, err)

		assert.True(t, allowed[outcome.Payout.String()], "unexpected payout %s", outcome.Payout)
		assert.True(t, before.Sub(bet).Add(outcome.Payout).Equal(outcome.Balance))

		line := outcome.Grid.Payline()
		same := line[0].ID == line[1].ID && line[1].ID == line[2].ID
		assert.Equal(t, same, outcome.Payout.IsPositive())
	}
}

func TestSpin_SeededSourceReplays(t *testing.T) {
	a, _ := newTestService(t, testConfig{balance: 1000}, WithRandomSource(NewSeededRNG(7)))
	b, _ := newTestService(t, testConfig{balance: 1000}, WithRandomSource(NewSeededRNG(7)))

	for i := 0; i < 20; i++ {
		oa, err := a.Spin(context.Background(), decimal.NewFromInt(10))
		require.NoError(t, err)
		ob, err := b.Spin(context.Background(), decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, oa.Grid.IDs(), ob.Grid.IDs())
	}
}

func TestSpin_PublishesEvents(t *testing.T) {
	bus := events.NewBus()
	s, _ := newTestService(t,
		testConfig{balance: 100, settle: 60 * time.Millisecond, tick: 10 * time.Millisecond},
		WithEvents(bus),
		WithRandomSource(middleRow(3, 3, 3)),
	)
	ch, cancel := s.Subscribe(64)
	defer cancel()

	outcome, err := s.Spin(context.Background(), decimal.NewFromInt(10))
	require.NoError(t, err)

	var kinds []model.SpinEventKind
	var settled model.SpinEvent
	for len(ch) > 0 {
		ev := <-ch
		kinds = append(kinds, ev.Kind)
		if ev.Kind == model.SpinEventSettled {
			settled = ev
		}
	}

	require.NotEmpty(t, kinds)
	assert.Equal(t, model.SpinEventStarted, kinds[0])
	assert.Equal(t, model.SpinEventSettled, kinds[len(kinds)-1])
	assert.Contains(t, kinds, model.SpinEventFrame)
	assert.Equal(t, outcome.Balance.String(), settled.Balance.String())
	assert.Equal(t, outcome.Grid, settled.Grid)
}

func TestAdjustBet_StepsAndFloor(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100})

	assert.Equal(t, "20", s.AdjustBet(1).String())
	assert.Equal(t, "50", s.AdjustBet(3).String())
	assert.Equal(t, "40", s.AdjustBet(-1).String())
	assert.Equal(t, "10", s.AdjustBet(-10).String())
	assert.Equal(t, "10", s.AdjustBet(-1).String())
	assert.Equal(t, "10", s.State().Bet.String())
}

func TestAdjustBet_MidSpinAppliesToNextSpin(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100, settle: 20 * time.Millisecond}, WithRandomSource(middleRow(1, 2, 5)))

	ch, err := s.RequestSpin(context.Background(), decimal.Zero)
	require.NoError(t, err)
	s.AdjustBet(1)

	outcome := <-ch
	assert.Equal(t, "10", outcome.Bet.String())
	assert.Equal(t, "20", s.State().Bet.String())
}

func TestReset_RestoresSession(t *testing.T) {
	s, ledger := newTestService(t, testConfig{balance: 100}, WithRandomSource(middleRow(1, 2, 5)))
	s.AdjustBet(2)
	_, err := s.Spin(context.Background(), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, s.Reset())

	state := s.State()
	assert.Equal(t, "100", state.Balance.String())
	assert.Equal(t, "10", state.Bet.String())
	assert.True(t, state.LastWin.IsZero())
	assert.Equal(t, 0, ledger.Len())
}

func TestClearLedger(t *testing.T) {
	s, _ := newTestService(t, testConfig{balance: 100})
	for i := 0; i < 3; i++ {
		_, err := s.Spin(context.Background(), decimal.NewFromInt(10))
		require.NoError(t, err)
	}

	s.ClearLedger()
	assert.Empty(t, s.Ledger())
	assert.Equal(t, 0, s.LedgerStats().Spins)
}

func TestRequestAnalysis_HandsSnapshotToHook(t *testing.T) {
	got := make(chan model.SessionState, 1)
	s, _ := newTestService(t, testConfig{balance: 100}, WithAnalysisHook(func(_ context.Context, snap model.SessionState) {
		got <- snap
	}))

	s.RequestAnalysis(context.Background())

	select {
	case snap := <-got:
		assert.Equal(t, "100", snap.Balance.String())
	case <-time.After(time.Second):
		t.Fatal("hook was not called")
	}
}

func TestEvaluatePayline(t *testing.T) {
	seven := testSymbols[3]
	bell := testSymbols[4]

	var grid model.Grid
	for r := 0; r < model.Reels; r++ {
		grid[r] = [model.Rows]model.Symbol{bell, seven, bell}
	}
	assert.Equal(t, "100", EvaluatePayline(grid, decimal.NewFromInt(10), decimal.NewFromInt(10)).String())

	// winning row elsewhere does not count
	grid[1][1] = bell
	grid[0][0], grid[1][0], grid[2][0] = seven, seven, seven
	assert.True(t, EvaluatePayline(grid, decimal.NewFromInt(10), decimal.NewFromInt(10)).IsZero())
}
