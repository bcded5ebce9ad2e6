package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]interface{}
		expected Options
	}{
		{
			name: "empty map falls back to defaults",
			raw:  map[string]interface{}{},
			expected: func() Options {
				return DefaultOptions()
			}(),
		},
		{
			name: "string enums decode case-insensitively",
			raw: map[string]interface{}{
				"saturator": "perimstar",
				"dead_ends": "NEW_FOR_CURRENT_ORDER",
				"order":     "cg_min_down",
			},
			expected: func() Options {
				o := DefaultOptions()
				o.Saturator = SaturatorPerimstar
				o.DeadEnds = DeadEndNewForCurrentOrder
				o.Order = OrderCGMinDown
				return o
			}(),
		},
		{
			name: "weakly typed numeric fields accept strings",
			raw: map[string]interface{}{
				"max_time": "30",
				"max_size": "512.5",
				"interval": "-1",
			},
			expected: func() Options {
				o := DefaultOptions()
				o.MaxTimeSeconds = 30
				o.MaxSizeKB = 512.5
				o.Interval = -1
				return o
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("decoded options mismatch: %s", diff)
			}
		})
	}
}

func TestDecode_UnrecognizedEnumValue(t *testing.T) {
	_, err := Decode(map[string]interface{}{"saturator": "QUANTUM"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(o *Options) {}},
		{name: "interval zero is rejected", mutate: func(o *Options) { o.Interval = 0 }, wantErr: true},
		{name: "interval below -2 is rejected", mutate: func(o *Options) { o.Interval = -3 }, wantErr: true},
		{name: "max_pattern_size below 1 is rejected", mutate: func(o *Options) { o.MaxPatternSize = 0 }, wantErr: true},
		{name: "max_pdb_size below 1 is rejected", mutate: func(o *Options) { o.MaxPDBSize = 0 }, wantErr: true},
		{name: "nonzero max_optimization_time is unimplemented", mutate: func(o *Options) { o.MaxOptimizationTime = 5 }, wantErr: true},
		{name: "nonzero max_orders is unimplemented", mutate: func(o *Options) { o.MaxOrders = 5 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := DefaultOptions()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr {
				require.Error(t, err)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				require.NotEmpty(t, ve.Violations)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidate_AggregatesAllViolations(t *testing.T) {
	o := DefaultOptions()
	o.Interval = 0
	o.MaxPatternSize = 0
	o.MaxPDBSize = 0

	err := o.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 3)
}
