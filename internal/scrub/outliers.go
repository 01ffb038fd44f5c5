package scrub

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/go-gota/gota/dataframe"
)

// FenceMultiplier scales the interquartile range into the outlier fences.
const FenceMultiplier = 1.5

// Quartiles returns Q1 and Q3 of a numeric column using linear interpolation.
// Missing cells are skipped; a column without values yields NaN quartiles.
func Quartiles(df dataframe.DataFrame, column string) (q1, q3 float64, err error) {
	vals, ok := table.Values(df, column)
	if !ok {
		return 0, 0, &InvalidInputError{Reason: fmt.Sprintf("column %q not found", column)}
	}
	nums, ok := table.Numbers(vals)
	if !ok {
		return 0, 0, &NonNumericColumnError{Column: column, Kind: table.InferKind(vals)}
	}
	sort.Float64s(nums)
	return table.Quantile(nums, 0.25), table.Quantile(nums, 0.75), nil
}

// InterquartileOutlierBounds returns the fences Q1-1.5*IQR and Q3+1.5*IQR of a
// numeric column. A constant column collapses both fences onto its value.
func InterquartileOutlierBounds(df dataframe.DataFrame, column string) (lower, upper float64, err error) {
	q1, q3, err := Quartiles(df, column)
	if err != nil {
		return 0, 0, err
	}
	iqr := q3 - q1
	return q1 - FenceMultiplier*iqr, q3 + FenceMultiplier*iqr, nil
}

// TrimOutliers keeps the rows whose value in column lies within the IQR fences,
// bounds included. Rows missing the value are dropped as well.
func TrimOutliers(df dataframe.DataFrame, column string) (dataframe.DataFrame, error) {
	lower, upper, err := InterquartileOutlierBounds(df, column)
	if err != nil {
		return df, err
	}
	return FilterRange(df, column, lower, upper), nil
}

// FilterRange keeps rows whose numeric value in column is within [lower, upper].
// Non-numeric or missing cells never satisfy the range; NaN bounds keep nothing.
// An unknown column returns df unchanged.
func FilterRange(df dataframe.DataFrame, column string, lower, upper float64) dataframe.DataFrame {
	vals, ok := table.Values(df, column)
	if !ok {
		return df
	}
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		x, isNum := table.ParseNumber(v)
		if !isNum || math.IsNaN(lower) || math.IsNaN(upper) {
			continue
		}
		if x >= lower && x <= upper {
			keep = append(keep, i)
		}
	}
	return df.Subset(keep)
}
