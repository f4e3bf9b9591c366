package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasclinic/ledger-engine/factory"
	"github.com/atlasclinic/ledger-engine/ledger"
)

func TestParseChart_DefaultChart(t *testing.T) {
	// GIVEN: the shipped default chart
	// WHEN: parsing it
	// THEN: all 16 accounts come through and the receivable resolves to
	//       the account coded 1100

	chart, err := factory.ParseChart(factory.DefaultChartJSON)
	require.NoError(t, err)
	assert.Len(t, chart.Accounts, 16)
	assert.Equal(t, int64(4), chart.ReceivableAccountID)

	assert.Equal(t, "Assets", chart.Accounts[0].Name)
	assert.Equal(t, ledger.MainTypeAsset, chart.Accounts[0].MainType)
	assert.Equal(t, int64(1), chart.Accounts[1].ParentID)
}

func TestParseChart_MalformedJSON(t *testing.T) {
	_, err := factory.ParseChart(`{"accounts": [`)
	assert.Error(t, err)
}

func TestFromJSON_Validation(t *testing.T) {
	base := func() factory.ChartJSON {
		return factory.ChartJSON{
			Accounts: []factory.AccountJSON{
				{ID: 1, Name: "Assets", MainType: "asset", Code: "1000"},
				{ID: 2, Name: "Cash", MainType: "asset", Code: "1010", ParentID: 1},
			},
			ReceivableCode: "1010",
		}
	}

	t.Run("valid chart passes", func(t *testing.T) {
		chart, err := factory.FromJSON(base())
		require.NoError(t, err)
		assert.Equal(t, int64(2), chart.ReceivableAccountID)
	})

	t.Run("empty chart", func(t *testing.T) {
		_, err := factory.FromJSON(factory.ChartJSON{})
		assert.Error(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		cj := base()
		cj.Accounts[0].ID = 0
		_, err := factory.FromJSON(cj)
		assert.ErrorContains(t, err, "has no id")
	})

	t.Run("duplicate id", func(t *testing.T) {
		cj := base()
		cj.Accounts[1].ID = 1
		_, err := factory.FromJSON(cj)
		assert.ErrorContains(t, err, "duplicate account id")
	})

	t.Run("unknown main type", func(t *testing.T) {
		cj := base()
		cj.Accounts[0].MainType = "speculative"
		_, err := factory.FromJSON(cj)
		assert.ErrorContains(t, err, "unknown main type")
	})

	t.Run("parent outside the chart", func(t *testing.T) {
		cj := base()
		cj.Accounts[1].ParentID = 99
		_, err := factory.FromJSON(cj)
		assert.ErrorContains(t, err, "unknown parent")
	})

	t.Run("receivable code matches nothing", func(t *testing.T) {
		cj := base()
		cj.ReceivableCode = "9999"
		_, err := factory.FromJSON(cj)
		assert.ErrorContains(t, err, "matches no account")
	})

	t.Run("no receivable code leaves settings unset", func(t *testing.T) {
		cj := base()
		cj.ReceivableCode = ""
		chart, err := factory.FromJSON(cj)
		require.NoError(t, err)
		assert.Zero(t, chart.ReceivableAccountID)
	})
}
