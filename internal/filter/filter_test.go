package filter

import (
	"testing"

	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type FilterTestSuite struct {
	suite.Suite
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterTestSuite))
}

func ticker(symbol, price, change string) types.TickerSnapshot {
	return types.TickerSnapshot{
		Symbol:             symbol,
		LastPrice:          decimal.RequireFromString(price),
		PriceChangePercent: decimal.RequireFromString(change),
		Volume:             decimal.RequireFromString("1000"),
	}
}

func (suite *FilterTestSuite) mixedSet() types.SnapshotSet {
	return types.SnapshotSet{
		ticker("BTCUSDT", "42000", "2.5"),
		ticker("ETHBTC", "0.05", "-1.2"),
		ticker("ETHUSDT", "2200", "-3"),
		ticker("BNBUSDT", "310", "0"),
		ticker("XRPEUR", "0.5", "7"),
		ticker("DOGEUSDT", "0.08", "12"),
	}
}

func (suite *FilterTestSuite) TestUnsetCriteriaKeepsQuoteAssetInOrder() {
	rows := Apply(suite.mixedSet(), NewCriteria(), DefaultQuoteAsset)
	suite.Equal([]string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "DOGEUSDT"}, rows.Symbols())
}

func (suite *FilterTestSuite) TestEmptyQuoteAssetKeepsEverything() {
	rows := Apply(suite.mixedSet(), NewCriteria(), "")
	suite.Equal(suite.mixedSet().Symbols(), rows.Symbols())
}

func (suite *FilterTestSuite) TestQuoteAssetIsCaseInsensitive() {
	rows := Apply(suite.mixedSet(), NewCriteria(), "usdt")
	suite.Equal([]string{"BTCUSDT", "ETHUSDT", "BNBUSDT", "DOGEUSDT"}, rows.Symbols())
}

func (suite *FilterTestSuite) TestThresholdSign() {
	set := types.SnapshotSet{
		ticker("AUSDT", "1", "-5"),
		ticker("BUSDT", "1", "0"),
		ticker("CUSDT", "1", "3"),
		ticker("DUSDT", "1", "7"),
	}

	below := ParseCriteria("", "", "-1")
	suite.Equal([]string{"AUSDT"}, Apply(set, below, DefaultQuoteAsset).Symbols())

	above := ParseCriteria("", "", "2")
	suite.Equal([]string{"CUSDT", "DUSDT"}, Apply(set, above, DefaultQuoteAsset).Symbols())
}

func (suite *FilterTestSuite) TestZeroThresholdExcludesZeroChange() {
	set := types.SnapshotSet{
		ticker("AUSDT", "1", "-5"),
		ticker("BUSDT", "1", "0"),
		ticker("CUSDT", "1", "3"),
	}

	suite.Equal([]string{"CUSDT"}, Apply(set, ParseCriteria("", "", "0"), DefaultQuoteAsset).Symbols())
	suite.Equal([]string{"AUSDT"}, Apply(set, ParseCriteria("", "", "-0"), DefaultQuoteAsset).Symbols())
}

func (suite *FilterTestSuite) TestMinPriceIsInclusive() {
	set := types.SnapshotSet{
		ticker("AUSDT", "99.99", "0"),
		ticker("BUSDT", "100", "0"),
		ticker("CUSDT", "100.01", "0"),
	}

	rows := Apply(set, ParseCriteria("", "100", ""), DefaultQuoteAsset)
	suite.Equal([]string{"BUSDT", "CUSDT"}, rows.Symbols())
}

func (suite *FilterTestSuite) TestNamePatternIsCaseInsensitive() {
	set := types.SnapshotSet{
		ticker("BTCUSDT", "1", "0"),
		ticker("ETHUSDT", "1", "0"),
		ticker("btcusdt-perp", "1", "0"),
	}

	rows := Apply(set, ParseCriteria("btc", "", ""), DefaultQuoteAsset)
	suite.Equal([]string{"BTCUSDT", "btcusdt-perp"}, rows.Symbols())
}

func (suite *FilterTestSuite) TestCombinedCriteria() {
	rows := Apply(suite.mixedSet(), ParseCriteria("T", "100", "-2"), DefaultQuoteAsset)
	suite.Equal([]string{"ETHUSDT"}, rows.Symbols())
}

func (suite *FilterTestSuite) TestInvalidNumericInputIsUnset() {
	criteria := ParseCriteria("", "abc", "12abc")
	suite.True(criteria.IsEmpty())

	rows := Apply(suite.mixedSet(), criteria, DefaultQuoteAsset)
	suite.Equal(Apply(suite.mixedSet(), NewCriteria(), DefaultQuoteAsset), rows)
}

func (suite *FilterTestSuite) TestOutputIsSubsequenceOfBaseSet() {
	base := Apply(suite.mixedSet(), NewCriteria(), DefaultQuoteAsset)

	criteriaList := []Criteria{
		NewCriteria(),
		ParseCriteria("usdt", "", ""),
		ParseCriteria("", "1", ""),
		ParseCriteria("", "", "1"),
		ParseCriteria("", "", "-1"),
		ParseCriteria("eth", "0", "-10"),
		ParseCriteria("nothing-matches", "", ""),
	}

	for _, criteria := range criteriaList {
		suite.Run(criteria.String(), func() {
			rows := Apply(suite.mixedSet(), criteria, DefaultQuoteAsset)

			// every row appears in base, in the same relative order, at most once
			i := 0
			for _, row := range rows {
				for i < len(base) && base[i].Symbol != row.Symbol {
					i++
				}
				suite.Less(i, len(base), "row %s is not a subsequence element", row.Symbol)
				suite.Equal(base[i], row)
				i++
			}
		})
	}
}

func (suite *FilterTestSuite) TestIdempotent() {
	criteriaList := []Criteria{
		NewCriteria(),
		ParseCriteria("b", "0.1", "1"),
		ParseCriteria("", "", "-1"),
	}

	for _, criteria := range criteriaList {
		once := Apply(suite.mixedSet(), criteria, DefaultQuoteAsset)
		twice := Apply(once, criteria, DefaultQuoteAsset)
		suite.Equal(once, twice)
	}
}

func (suite *FilterTestSuite) TestDoesNotModifyInput() {
	set := suite.mixedSet()
	snapshot := set.Clone()

	_ = Apply(set, ParseCriteria("eth", "1", "-1"), DefaultQuoteAsset)
	suite.Equal(snapshot, set)
}

func (suite *FilterTestSuite) TestEmptySet() {
	suite.Empty(Apply(nil, ParseCriteria("btc", "1", "1"), DefaultQuoteAsset))
	suite.Empty(Apply(types.SnapshotSet{}, NewCriteria(), DefaultQuoteAsset))
}
