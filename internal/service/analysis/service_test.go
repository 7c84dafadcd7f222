package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"quant_terminal/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	demoDelay time.Duration
}

func (c testConfig) APIKey() string             { return "test" }
func (c testConfig) Model() string              { return "test-model" }
func (c testConfig) Timeout() time.Duration     { return time.Second }
func (c testConfig) DemoDelay() time.Duration   { return c.demoDelay }
func (c testConfig) RequestsPerMinute() float64 { return 60 }
func (c testConfig) Burst() int                 { return 1 }

type fakeGenerator struct {
	reply    string
	err      error
	gotImage []byte
	gotMime  string
	block    chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	g.gotImage = image
	g.gotMime = mimeType
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, g.err
}

const validReply = `{
  "visualDiagnosis": "Book of Ra, Novomatic",
  "technicalReading": "High volatility",
  "sessionState": "Drawdown 12%",
  "actionPlan": {
    "spinBudget": "40 spins",
    "stopLoss": "R$ 200.00",
    "takeProfit": "R$ 600.00",
    "exitConditions": ["Stop-loss hit", "Bonus round completed"]
  },
  "directInstruction": "REDUCE BET"
}`

func TestAnalyzeScreenshot_ParsesReply(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	s := NewAnalysisService(testConfig{}, gen)

	res, err := s.AnalyzeScreenshot(context.Background(), []byte{0xff, 0xd8}, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "Book of Ra, Novomatic", res.VisualDiagnosis)
	assert.Equal(t, "R$ 200.00", res.ActionPlan.StopLoss)
	assert.Equal(t, []string{"Stop-loss hit", "Bonus round completed"}, res.ActionPlan.ExitConditions)
	assert.Equal(t, "REDUCE BET", res.DirectInstruction)
	assert.Equal(t, "image/png", gen.gotMime)

	panel := s.Panel()
	assert.False(t, panel.Analyzing)
	assert.Empty(t, panel.Error)
	require.NotNil(t, panel.Result)
	assert.Equal(t, "High volatility", panel.Result.TechnicalReading)
}

func TestAnalyzeScreenshot_DefaultMimeType(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	s := NewAnalysisService(testConfig{}, gen)

	_, err := s.AnalyzeScreenshot(context.Background(), []byte{1}, "")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", gen.gotMime)
}

func TestAnalyzeScreenshot_Failures(t *testing.T) {
	tests := []struct {
		name  string
		gen   Generator
		image []byte
		mime  string
	}{
		{name: "no generator", gen: nil, image: []byte{1}},
		{name: "empty image", gen: &fakeGenerator{reply: validReply}},
		{name: "not an image", gen: &fakeGenerator{reply: validReply}, image: []byte{1}, mime: "text/plain"},
		{name: "transport error", gen: &fakeGenerator{err: errors.New("503")}, image: []byte{1}},
		{name: "invalid json", gen: &fakeGenerator{reply: "not json"}, image: []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAnalysisService(testConfig{}, tt.gen)

			res, err := s.AnalyzeScreenshot(context.Background(), tt.image, tt.mime)
			require.ErrorIs(t, err, model.ErrAnalysisFailure)
			assert.Nil(t, res)

			panel := s.Panel()
			assert.False(t, panel.Analyzing)
			assert.Nil(t, panel.Result)
			assert.NotEmpty(t, panel.Error)
		})
	}
}

func TestAnalyzeScreenshot_ClearsPreviousResultWhileRunning(t *testing.T) {
	gen := &fakeGenerator{reply: validReply}
	s := NewAnalysisService(testConfig{}, gen)
	_, err := s.AnalyzeScreenshot(context.Background(), []byte{1}, "")
	require.NoError(t, err)

	gen.block = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.AnalyzeScreenshot(context.Background(), []byte{1}, "")
	}()

	require.Eventually(t, func() bool { return s.Panel().Analyzing }, time.Second, time.Millisecond)
	assert.Nil(t, s.Panel().Result)

	close(gen.block)
	<-done
	assert.NotNil(t, s.Panel().Result)
}

func runs(s *serv) uint64 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.seq
}

func TestAnalysis_StaleRunDoesNotOverwritePanel(t *testing.T) {
	gen := &fakeGenerator{reply: validReply, block: make(chan struct{})}
	s := NewAnalysisService(testConfig{demoDelay: time.Minute}, gen).(*serv)

	screenshotDone := make(chan struct{})
	go func() {
		defer close(screenshotDone)
		_, _ = s.AnalyzeScreenshot(context.Background(), []byte{1}, "")
	}()
	require.Eventually(t, func() bool { return runs(s) == 1 }, time.Second, time.Millisecond)

	demoCtx, cancel := context.WithCancel(context.Background())
	demoDone := make(chan struct{})
	go func() {
		defer close(demoDone)
		_, _ = s.AnalyzeDemo(demoCtx, model.SessionState{})
	}()
	require.Eventually(t, func() bool { return runs(s) == 2 }, time.Second, time.Millisecond)

	// первый запуск завершается, пока второй еще идет
	close(gen.block)
	<-screenshotDone
	panel := s.Panel()
	assert.True(t, panel.Analyzing)
	assert.Nil(t, panel.Result)
	assert.Empty(t, panel.Error)

	cancel()
	<-demoDone
	panel = s.Panel()
	assert.False(t, panel.Analyzing)
	assert.NotEmpty(t, panel.Error)
}

func TestAnalyzeDemo_ReturnsMockAfterDelay(t *testing.T) {
	s := NewAnalysisService(testConfig{demoDelay: 10 * time.Millisecond}, nil)

	start := time.Now()
	res, err := s.AnalyzeDemo(context.Background(), model.SessionState{Balance: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, "V$ 500.00", res.ActionPlan.StopLoss)
	assert.Equal(t, "V$ 2000.00", res.ActionPlan.TakeProfit)
	assert.Len(t, res.ActionPlan.ExitConditions, 2)
	assert.Equal(t, res, s.Panel().Result)
}

func TestAnalyzeDemo_CancelledContext(t *testing.T) {
	s := NewAnalysisService(testConfig{demoDelay: time.Minute}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AnalyzeDemo(ctx, model.SessionState{})
	require.ErrorIs(t, err, model.ErrAnalysisFailure)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, s.Panel().Error)
}

func TestResponseSchema_RequiresAllFields(t *testing.T) {
	schema := responseSchema()
	assert.ElementsMatch(t,
		[]string{"visualDiagnosis", "technicalReading", "sessionState", "actionPlan", "directInstruction"},
		schema.Required)
	assert.Len(t, schema.Properties["actionPlan"].Required, 4)
}
