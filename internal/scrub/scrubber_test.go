package scrub

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerHeader = []string{"CustomerID", "Name", "Region", "JoinDate", "LoyaltyPoints", "PreferredContactMethod"}

// tenCustomers has two exact duplicates (rows 9 and 10), one row without a
// CustomerID and one LoyaltyPoints value far outside the IQR fences.
func tenCustomers() dataframe.DataFrame {
	return table.FromRecords(customerHeader, [][]string{
		{"1001", "Ava Hill", "East", "2021-01-01", "100", "email"},
		{"1002", "Ben Cole", "West", "2021-01-02", "110", "call"},
		{"1003", "Cy Park", "North", "2021-01-03", "120", "text"},
		{"1004", "Di Ross", "South", "2021-01-04", "130", "mail"},
		{"1005", "Ed Wong", "East", "2021-01-05", "140", "email"},
		{"1006", "Fay Diaz", "West", "2021-01-06", "150", "call"},
		{"", "Gus Lane", "North", "2021-01-07", "125", "text"},
		{"1008", "Hal Kent", "South", "2021-01-08", "99999", "mail"},
		{"1001", "Ava Hill", "East", "2021-01-01", "100", "email"},
		{"1002", "Ben Cole", "West", "2021-01-02", "110", "call"},
	})
}

func TestNewRejectsUnusableDatasets(t *testing.T) {
	_, err := New(dataframe.DataFrame{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = New(dataframe.New())
	require.Error(t, err)
	var inv *InvalidInputError
	require.True(t, errors.As(err, &inv))
	assert.Contains(t, inv.Error(), "failed to load")
}

func TestZeroRowDatasetAuditsToZero(t *testing.T) {
	df := table.FromRecords(customerHeader, nil)
	logger, _ := test.NewNullLogger()
	s, err := New(df, WithLogger(logger))
	require.NoError(t, err)

	for _, rep := range []*Report{s.AuditBeforeCleaning(df), s.AuditAfterCleaning(df)} {
		assert.Equal(t, 0, rep.Rows)
		assert.Equal(t, 0, rep.Duplicates)
		assert.Equal(t, 0, rep.MissingTotal)
		for _, n := range rep.Missing {
			assert.Equal(t, 0, n)
		}
		assert.Equal(t, len(customerHeader), rep.Columns)
	}
}

func TestScrubberStateAndLogging(t *testing.T) {
	df := tenCustomers()
	logger, hook := test.NewNullLogger()
	s, err := New(df, WithLogger(logger), WithName("customers"), WithRunID("run-1"))
	require.NoError(t, err)
	assert.Equal(t, StatePending, s.State())
	assert.Nil(t, s.Before())

	before := s.AuditBeforeCleaning(df)
	assert.Equal(t, StateBeforeAudited, s.State())
	assert.Equal(t, "run-1", before.RunID)
	assert.Equal(t, "customers", before.Name)
	assert.Equal(t, StageBefore, before.Stage)

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 10, entry.Data["rows"])
	assert.Equal(t, 2, entry.Data["duplicates"])
	assert.True(t, strings.Contains(entry.Message, "10 rows"))
	assert.True(t, strings.Contains(entry.Message, "2 duplicate rows"))

	s.AuditAfterCleaning(DropDuplicates(df))
	assert.Equal(t, StateAfterAudited, s.State())
	require.Len(t, hook.Entries, 2)
	assert.Equal(t, 2, hook.LastEntry().Data["rows_dropped"])
}

func TestBeforeReportDetails(t *testing.T) {
	rep := Audit(tenCustomers(), StageBefore)
	assert.Equal(t, 10, rep.Rows)
	assert.Equal(t, 6, rep.Columns)
	assert.Equal(t, 2, rep.Duplicates)
	assert.Equal(t, 1, rep.MissingTotal)
	assert.Equal(t, 1, rep.Missing["CustomerID"])
	assert.Equal(t, table.KindNumeric, rep.Types["CustomerID"])
	assert.Equal(t, table.KindTemporal, rep.Types["JoinDate"])
	assert.Equal(t, table.KindText, rep.Types["Region"])

	require.Len(t, rep.Profiles, 6)
	pts := rep.Profiles[4]
	assert.Equal(t, "LoyaltyPoints", pts.Name)
	require.NotNil(t, pts.Stats)
	assert.Equal(t, 10, pts.Stats.Count)
	assert.Equal(t, 99999.0, pts.Stats.Max)
	assert.Nil(t, rep.Profiles[1].Stats)

	md := rep.Markdown()
	assert.Contains(t, md, "[CONSISTENCY REPORT: BEFORE]")
	assert.Contains(t, md, "Rows: 10")
	assert.Contains(t, md, "Duplicate rows: 2")
	assert.Contains(t, md, "- LoyaltyPoints: numeric")
}

func TestEndToEndCustomerScrub(t *testing.T) {
	df := tenCustomers()
	logger, hook := test.NewNullLogger()
	s, err := New(df, WithLogger(logger))
	require.NoError(t, err)

	before := s.AuditBeforeCleaning(df)
	assert.Equal(t, 10, before.Rows)

	df = DropDuplicates(df)
	assert.Equal(t, 8, df.Nrow())
	df = DropMissing(df, "CustomerID")
	assert.Equal(t, 7, df.Nrow())
	df, err = TrimOutliers(df, "LoyaltyPoints")
	require.NoError(t, err)

	after := s.AuditAfterCleaning(df)
	assert.Equal(t, 10-2-1-1, after.Rows)
	assert.Equal(t, 0, after.Duplicates)
	assert.Equal(t, 0, after.MissingTotal)
	assert.Equal(t, 4, hook.LastEntry().Data["rows_dropped"])

	// helpers stay usable after the final checkpoint
	df = RestrictToAllowedValues(df, "Region", []string{"North", "South", "East", "West"})
	assert.Equal(t, 6, df.Nrow())
}
