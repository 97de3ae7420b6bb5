package main

import (
	"bytes"
	"context"
	"iter"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/rxtech-lab/argo-ticker/internal/filter"
	"github.com/rxtech-lab/argo-ticker/internal/session"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/rxtech-lab/argo-ticker/mocks"
	"github.com/rxtech-lab/argo-ticker/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func ticker(symbol, price, change, volume string) types.TickerSnapshot {
	return types.TickerSnapshot{
		Symbol:             symbol,
		LastPrice:          decimal.RequireFromString(price),
		PriceChangePercent: decimal.RequireFromString(change),
		Volume:             decimal.RequireFromString(volume),
	}
}

func sampleSet() types.SnapshotSet {
	return types.SnapshotSet{
		ticker("BTCUSDT", "42000", "2.5", "1500000"),
		ticker("ETHUSDT", "2500", "-1.2", "800000"),
		ticker("ETHBTC", "0.06", "0.4", "1000"),
	}
}

func newTestModel() Model {
	return NewModel(session.New(filter.DefaultQuoteAsset, filter.NewCriteria()), nil)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)

	return next.(Model), cmd
}

func typeText(m Model, text string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})

	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel()

	assert.Equal(t, 0, m.focus)
	assert.Len(t, m.inputs, len(filter.Fields))
	assert.True(t, m.inputs[0].Focused())
	assert.Empty(t, m.rows)
	assert.NotNil(t, m.prevPrices)
}

func TestNewModelSeedsInputsFromCriteria(t *testing.T) {
	criteria := filter.ParseCriteria("btc", "100", "-2")
	m := NewModel(session.New("USDT", criteria), nil)

	assert.Equal(t, "btc", m.inputs[0].Value())
	assert.Equal(t, "100", m.inputs[1].Value())
	assert.Equal(t, "-2", m.inputs[2].Value())
	assert.Equal(t, "Minimum Price", m.inputs[1].Placeholder)
}

func TestSnapshotMsgReplacesRows(t *testing.T) {
	m := newTestModel()

	m, _ = update(m, SnapshotMsg{Set: sampleSet()})
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, m.rows.Symbols())
	assert.Equal(t, session.StatusLive, m.session.Status())

	m, _ = update(m, SnapshotMsg{Set: types.SnapshotSet{ticker("SOLUSDT", "150", "3", "10")}})
	assert.Equal(t, []string{"SOLUSDT"}, m.rows.Symbols())
	assert.Equal(t, decimal.RequireFromString("42000"), m.prevPrices["BTCUSDT"])

	m, _ = update(m, SnapshotMsg{Set: types.SnapshotSet{ticker("SOLUSDT", "151", "3", "10")}})
	assert.NotContains(t, m.prevPrices, "BTCUSDT")
	assert.NotContains(t, m.prevPrices, "ETHUSDT")
	assert.Equal(t, decimal.RequireFromString("150"), m.prevPrices["SOLUSDT"])
	assert.Contains(t, m.View(), "$151 ▲")
}

func TestTypingUpdatesCriteria(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, SnapshotMsg{Set: sampleSet()})

	m = typeText(m, "eth")
	assert.Equal(t, []string{"ETHUSDT"}, m.rows.Symbols())
	assert.True(t, m.session.Criteria().NamePattern.IsSome())

	// Move to the price change input and ask for losers.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 2, m.focus)

	m = typeText(m, "-1")
	assert.Equal(t, []string{"ETHUSDT"}, m.rows.Symbols())

	m = typeText(m, "0")
	assert.Empty(t, m.rows)
}

func TestInvalidNumberLeavesCriterionUnset(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, SnapshotMsg{Set: sampleSet()})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})

	m = typeText(m, "abc")
	assert.True(t, m.session.Criteria().MinPrice.IsNone())
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, m.rows.Symbols())
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel()

	for want := 1; want <= focusTable; want++ {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, m.focus)
	}

	assert.True(t, m.dataTable.Focused())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)
	assert.True(t, m.inputs[0].Focused())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusTable, m.focus)
}

func TestQuitKeys(t *testing.T) {
	t.Run("q types into a focused input", func(t *testing.T) {
		m := newTestModel()

		m = typeText(m, "q")
		assert.Equal(t, "q", m.inputs[0].Value())
		assert.NotEqual(t, session.StatusClosed, m.session.Status())
	})

	t.Run("q quits from the table and cancels the stream", func(t *testing.T) {
		cancelled := false
		m := NewModel(session.New("USDT", filter.NewCriteria()), func() { cancelled = true })
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyShiftTab})

		_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, cancelled)
		assert.Equal(t, session.StatusClosed, m.session.Status())
	})

	t.Run("ctrl+c always quits", func(t *testing.T) {
		m := newTestModel()

		_, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestFeedErrors(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, SnapshotMsg{Set: sampleSet()})

	m, _ = update(m, FeedErrorMsg{Err: errors.New(errors.ErrCodeFeedParseFailed, "bad frame")})
	assert.Equal(t, session.StatusLive, m.session.Status())
	assert.Len(t, m.rows, 2)
	assert.Contains(t, m.View(), "bad frame")

	m, _ = update(m, FeedErrorMsg{Err: errors.New(errors.ErrCodeFeedConnectionLost, "socket closed")})
	assert.Equal(t, session.StatusStale, m.session.Status())
	assert.Len(t, m.rows, 2)
	assert.Contains(t, m.View(), "STALE")
}

func TestFeedClosedMarksStale(t *testing.T) {
	m := newTestModel()
	m, _ = update(m, SnapshotMsg{Set: sampleSet()})
	m, _ = update(m, FeedClosedMsg{})

	assert.Equal(t, session.StatusStale, m.session.Status())
}

func TestViewStates(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), "Waiting for data...")

	m, _ = update(m, SnapshotMsg{Set: sampleSet()})
	m = typeText(m, "doge")
	assert.Contains(t, m.View(), "No symbols match the current filters.")
}

func TestLiveTableRendering(t *testing.T) {
	m := newTestModel()
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(140, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Waiting for data"))
	}, teatest.WithDuration(2*time.Second))

	tm.Send(SnapshotMsg{Set: sampleSet()})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("BTCUSDT")) && bytes.Contains(bts, []byte("LIVE"))
	}, teatest.WithDuration(2*time.Second))

	tm.Type("eth")

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("rows: 1/3"))
	}, teatest.WithDuration(2*time.Second))

	err := tm.Quit()
	assert.NoError(t, err)
}

// recordingSender collects messages sent by streamFeed.
type recordingSender struct {
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.msgs = append(s.msgs, msg)
}

func TestStreamFeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)

	parseErr := errors.New(errors.ErrCodeFeedParseFailed, "bad frame")
	source.EXPECT().Stream(gomock.Any()).Return(iter.Seq2[types.SnapshotSet, error](
		func(yield func(types.SnapshotSet, error) bool) {
			_ = yield(sampleSet(), nil) && yield(nil, parseErr)
		}))

	sender := &recordingSender{}
	streamFeed(context.Background(), sender, source)

	require.Len(t, sender.msgs, 3)
	assert.Equal(t, SnapshotMsg{Set: sampleSet()}, sender.msgs[0])
	assert.Equal(t, FeedErrorMsg{Err: parseErr}, sender.msgs[1])
	assert.Equal(t, FeedClosedMsg{}, sender.msgs[2])
}

func TestStreamFeedCancelledSendsNoClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	source.EXPECT().Stream(gomock.Any()).Return(iter.Seq2[types.SnapshotSet, error](
		func(yield func(types.SnapshotSet, error) bool) {
			cancel()
		}))

	sender := &recordingSender{}
	streamFeed(ctx, sender, source)

	assert.Empty(t, sender.msgs)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$100", FormatPrice(decimal.NewFromInt(100), decimal.Zero))
	assert.Equal(t, "$101 ▲", FormatPrice(decimal.NewFromInt(101), decimal.NewFromInt(100)))
	assert.Equal(t, "$99 ▼", FormatPrice(decimal.NewFromInt(99), decimal.NewFromInt(100)))
	assert.Equal(t, "▲ 2.50%", FormatChange(decimal.RequireFromString("2.5")))
	assert.Equal(t, "▼ -1.20%", FormatChange(decimal.RequireFromString("-1.2")))
	assert.Equal(t, "▼ 0.00%", FormatChange(decimal.Zero))
	assert.Equal(t, "$2.50M - $2500000.00", FormatVolume(decimal.NewFromInt(2_500_000)))
}

func TestRenderStaticTable(t *testing.T) {
	out := RenderStaticTable(sampleSet()[:2])

	assert.Contains(t, out, "Price Change (%)")
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "$42000")
	assert.NotContains(t, out, "ETHBTC")
}
