package prepare

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/salescrub/internal/rules"
	"github.com/KaramelBytes/salescrub/internal/scrub"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rawCustomers = []string{
	"CustomerID,Name,Region,JoinDate,LoyaltyPoints ,PreferredContactMethod",
	"1001,William White,East,11/11/2021,1200,Email",
	"1002,Zoe Young,West,2/14/2023,450,cll",
	"1003,Liam Lee,North,6/1/2022,800,emal",
	"1004,Emma Ng,South,3/9/2020,980,textt",
	"1005,Noah Kim,Central,1/5/2021,600,call",
	"1006,Mia Cruz,East,7/7/2022,700,carrier pigeon",
	"1007,Omar Ali,West,8/8/2022,,call",
	"1001,William White,East,11/11/2021,1200,Email",
	"1008,Ivy Chen,North,9/9/2021,75000,mail",
	"1009,Jon Park,South,10/10/2021,900,mai",
}

func writeRaw(t *testing.T, dir, name string, lines []string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func customersPipeline(t *testing.T) rules.Pipeline {
	t.Helper()
	set, err := rules.Default()
	require.NoError(t, err)
	p, ok := set.Lookup("customers")
	require.True(t, ok)
	return p
}

func TestRunCustomersPipeline(t *testing.T) {
	root := t.TempDir()
	rawDir := filepath.Join(root, "raw")
	prepDir := filepath.Join(root, "prepared")
	writeRaw(t, rawDir, "customers_data.csv", rawCustomers)

	logger, hook := test.NewNullLogger()
	res, err := Run(context.Background(), customersPipeline(t), Options{
		RawDir:      rawDir,
		PreparedDir: prepDir,
		Table:       table.DefaultOptions(),
		Logger:      logger,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Before.Rows)
	assert.Equal(t, 1, res.Before.Duplicates)
	assert.Equal(t, 1, res.Before.MissingTotal)
	assert.Equal(t, 5, res.After.Rows)
	assert.Equal(t, 0, res.After.Duplicates)
	assert.Equal(t, res.RunID, res.Before.RunID)
	assert.Equal(t, res.RunID, res.After.RunID)

	b, err := os.ReadFile(filepath.Join(prepDir, "customers_data_prepared.csv"))
	require.NoError(t, err)
	want := strings.Join([]string{
		"CustomerID,Name,Region,JoinDate,LoyaltyPoints,PreferredContactMethod",
		"1001,William White,East,2021-11-11,1200,email",
		"1002,Zoe Young,West,2023-02-14,450,call",
		"1003,Liam Lee,North,2022-06-01,800,email",
		"1004,Emma Ng,South,2020-03-09,980,text",
		"1009,Jon Park,South,2021-10-10,900,mail",
	}, "\n") + "\n"
	assert.Equal(t, want, string(b))

	var rows []int
	for _, s := range res.Steps {
		rows = append(rows, s.RowsAfter)
	}
	assert.Equal(t, []int{10, 9, 8, 8, 8, 8, 7, 6, 6, 5}, rows)

	var audits int
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "consistency check") {
			audits++
		}
	}
	assert.Equal(t, 2, audits)

	md := res.Markdown()
	assert.Contains(t, md, "# Preparation: customers")
	assert.Contains(t, md, "[CONSISTENCY REPORT: BEFORE]")
	assert.Contains(t, md, "7. trim_outliers [LoyaltyPoints]: 8 -> 7 rows")
	assert.Contains(t, md, "[CONSISTENCY REPORT: AFTER]")
}

func TestRunMissingInput(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := Run(context.Background(), customersPipeline(t), Options{RawDir: t.TempDir(), PreparedDir: t.TempDir(), Logger: logger})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read raw data")
}

func TestApplyTrimOnTextColumnFails(t *testing.T) {
	df := table.FromRecords([]string{"Region"}, [][]string{{"North"}, {"South"}})
	_, _, err := Apply(context.Background(), df, []rules.Step{{Op: rules.OpTrimOutliers, Columns: []string{"Region"}}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scrub.ErrNonNumericColumn))
}

func TestApplyHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	df := table.FromRecords([]string{"a"}, [][]string{{"1"}, {"1"}})
	out, steps, err := Apply(ctx, df, []rules.Step{{Op: rules.OpDropDuplicates}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, steps)
	assert.Equal(t, 2, out.Nrow())
}

func TestApplyCorrectionsThenRestrict(t *testing.T) {
	df := table.FromRecords([]string{"PaymentType"}, [][]string{{" Cashh "}, {"CRD"}, {"ard"}, {"cheque"}})
	steps := []rules.Step{
		{Op: rules.OpNormalizeText, Columns: []string{"PaymentType"}},
		{Op: rules.OpCorrectValues, Columns: []string{"PaymentType"}, Corrections: []scrub.Correction{
			{From: "cashh", To: "cash"}, {From: "crd", To: "card"}, {From: "ard", To: "card"},
		}},
		{Op: rules.OpRestrictValues, Columns: []string{"PaymentType"}, Allowed: []string{"cash", "card"}},
	}
	out, res, err := Apply(context.Background(), df, steps, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)
	vals, _ := table.Values(out, "PaymentType")
	assert.Equal(t, []string{"cash", "card", "card"}, vals)
}
