// File path: internal/extract/aggregator.go
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/houdini-kb/hipcore/internal/store"
)

// numericPattern matches the exact numeric-parseability rule: a leading
// optional sign, one or more decimal digits, and an optional decimal
// point with further digits. Scientific notation and JSON-array text do
// not match, so sequence and text snapshots are excluded automatically.
var numericPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Aggregate computes per-parameter numeric summaries for a node type,
// optionally narrowed to a single parameter name, per the stats(node_type
// [, param_name]) core API operation.
func Aggregate(ctx context.Context, st *store.Store, nodeType, paramName string) ([]store.AggregateResult, error) {
	rows, err := st.NumericSnapshots(ctx, nodeType, paramName)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	type accumulator struct {
		values   []float64
		modified int
	}
	byParam := make(map[string]*accumulator)
	order := make([]string, 0)
	for _, row := range rows {
		if !numericPattern.MatchString(row.ParamValue) {
			continue
		}
		f, err := strconv.ParseFloat(row.ParamValue, 64)
		if err != nil {
			continue
		}
		acc, ok := byParam[row.ParamName]
		if !ok {
			acc = &accumulator{}
			byParam[row.ParamName] = acc
			order = append(order, row.ParamName)
		}
		acc.values = append(acc.values, f)
		if !row.IsDefault {
			acc.modified++
		}
	}

	results := make([]store.AggregateResult, 0, len(order))
	for _, name := range order {
		acc := byParam[name]
		results = append(results, summarize(nodeType, name, acc.values, acc.modified))
	}
	return results, nil
}

func summarize(nodeType, paramName string, values []float64, modified int) store.AggregateResult {
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))
	return store.AggregateResult{
		NodeType:      nodeType,
		ParamName:     paramName,
		SampleCount:   len(values),
		Min:           min,
		Max:           max,
		Mean:          mean,
		ModifiedCount: modified,
	}
}

// UsageRange computes the interval [min + 0.1*(max-min), max - 0.1*(max-min)],
// clamped to [min, max]. Callers should exclude results with fewer than
// two usable samples before presenting this to a human.
func UsageRange(r store.AggregateResult) (low, high float64) {
	span := r.Max - r.Min
	low = r.Min + 0.1*span
	high = r.Max - 0.1*span
	if low < r.Min {
		low = r.Min
	}
	if high > r.Max {
		high = r.Max
	}
	if high < low {
		high = low
	}
	return low, high
}
