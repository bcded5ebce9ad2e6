// Package config decodes the loosely-typed option map a caller assembles
// (command-line flags, a config file, a test fixture) into a typed Options
// struct using github.com/mitchellh/mapstructure plus decode hooks for the
// enum-valued fields.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Saturator selects ALL vs PERIMSTAR.
type Saturator int

const (
	SaturatorAll Saturator = iota
	SaturatorPerimstar
)

func (s Saturator) String() string {
	if s == SaturatorPerimstar {
		return "PERIMSTAR"
	}
	return "ALL"
}

// DeadEndTreatment selects how PatternEvaluator judges dead ends useful.
type DeadEndTreatment int

const (
	DeadEndIgnore DeadEndTreatment = iota
	DeadEndAll
	DeadEndNew
	DeadEndNewForCurrentOrder
)

func (d DeadEndTreatment) String() string {
	switch d {
	case DeadEndAll:
		return "ALL"
	case DeadEndNew:
		return "NEW"
	case DeadEndNewForCurrentOrder:
		return "NEW_FOR_CURRENT_ORDER"
	default:
		return "IGNORE"
	}
}

// OrderType selects how SystematicPatternEnumerator orders buffered
// patterns of a given size.
type OrderType int

const (
	OrderOriginal OrderType = iota
	OrderReverse
	OrderRandom
	OrderPDBSizeUp
	OrderPDBSizeDown
	OrderCGSumUp
	OrderCGSumDown
	OrderCGMinUp
	OrderCGMinDown
	OrderCGMaxUp
	OrderCGMaxDown
	OrderNewVarPairsUp
	OrderNewVarPairsDown
	OrderActiveOpsUp
	OrderActiveOpsDown
	OrderAltTwo
	OrderActiveOpsUpCGMinDown
	OrderCGMinDownActiveOpsUp
)

var orderTypeNames = map[string]OrderType{
	"ORIGINAL":                    OrderOriginal,
	"REVERSE":                     OrderReverse,
	"RANDOM":                      OrderRandom,
	"PDB_SIZE_UP":                 OrderPDBSizeUp,
	"PDB_SIZE_DOWN":                OrderPDBSizeDown,
	"CG_SUM_UP":                   OrderCGSumUp,
	"CG_SUM_DOWN":                 OrderCGSumDown,
	"CG_MIN_UP":                   OrderCGMinUp,
	"CG_MIN_DOWN":                 OrderCGMinDown,
	"CG_MAX_UP":                   OrderCGMaxUp,
	"CG_MAX_DOWN":                 OrderCGMaxDown,
	"NEW_VAR_PAIRS_UP":            OrderNewVarPairsUp,
	"NEW_VAR_PAIRS_DOWN":          OrderNewVarPairsDown,
	"ACTIVE_OPS_UP":               OrderActiveOpsUp,
	"ACTIVE_OPS_DOWN":             OrderActiveOpsDown,
	"ALT_TWO":                     OrderAltTwo,
	"ACTIVE_OPS_UP_CG_MIN_DOWN":   OrderActiveOpsUpCGMinDown,
	"CG_MIN_DOWN_ACTIVE_OPS_UP":   OrderCGMinDownActiveOpsUp,
}

// ScoringFunctionName mirrors costsat.ScoringFunction's three variants as
// config-decodable strings, to keep config from importing costsat.
type ScoringFunctionName string

const (
	ScoringMaxHeuristicPerStolenCosts ScoringFunctionName = "max_heuristic_per_stolen_costs"
	ScoringMinStolenCosts             ScoringFunctionName = "min_stolen_costs"
	ScoringMaxHeuristic               ScoringFunctionName = "max_heuristic"
)

const unimplementedWording = "unimplemented"

// Options is the full recognized configuration surface.
type Options struct {
	Abstractions []map[string]interface{} `mapstructure:"abstractions"`
	Orders       ScoringFunctionName      `mapstructure:"orders"`
	Saturator    Saturator                `mapstructure:"saturator"`

	Interval int `mapstructure:"interval"`

	MaxTimeSeconds int     `mapstructure:"max_time"`
	MaxSizeKB      float64 `mapstructure:"max_size"`

	MaxOrders            int `mapstructure:"max_orders"`
	MaxOptimizationTime  int `mapstructure:"max_optimization_time"`

	UseEvaluatedStateAsSample bool `mapstructure:"use_evaluated_state_as_sample"`

	MaxPatternSize    int `mapstructure:"max_pattern_size"`
	MaxPDBSize        int `mapstructure:"max_pdb_size"`
	MaxCollectionSize int `mapstructure:"max_collection_size"`
	MaxPatterns       int `mapstructure:"max_patterns"`

	DeadEnds DeadEndTreatment `mapstructure:"dead_ends"`
	Order    OrderType        `mapstructure:"order"`

	IgnoreUselessPatterns bool `mapstructure:"ignore_useless_patterns"`
	OnlySGAPatterns       bool `mapstructure:"only_sga_patterns"`
	Saturate              bool `mapstructure:"saturate"`
	StoreOrders           bool `mapstructure:"store_orders"`

	RNGSeed int64 `mapstructure:"rng_seed"`
}

// DefaultOptions returns the zero-configuration baseline: ALL saturator,
// interval=1, no sampling, no budgets, IGNORE dead ends, ORIGINAL order —
// matching the bounds table's notion of "default" used by Validate's
// max_orders/max_optimization_time check.
func DefaultOptions() Options {
	return Options{
		Orders:            ScoringMaxHeuristicPerStolenCosts,
		Interval:          1,
		MaxOrders:         0,
		MaxPatternSize:    2,
		MaxPDBSize:        1_000_000,
		MaxCollectionSize: 10_000_000,
	}
}

// Decode fills an Options from a loosely-typed map (JSON-decoded config
// file, CLI flag bag, test fixture), composing per-field decode hooks so
// mapstructure.Decode can accept a plain string for each enum-valued field.
func Decode(raw map[string]interface{}) (Options, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			saturatorHookFunc,
			deadEndTreatmentHookFunc,
			orderTypeHookFunc,
		),
	})
	if err != nil {
		return Options{}, errors.Wrap(err, "building options decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return Options{}, errors.Wrap(err, "decoding options")
	}
	return opts, nil
}

// ValidationError aggregates every violated bound or unsupported
// combination into a single error instead of failing on the first one.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Violations, "; "))
}

// Validate enforces the bounds table and the online-variant's
// "unimplemented" combinations: it preserves the abort, with the same
// wording, if max_optimization_time != 0 or max_orders != the "unbounded"
// default.
func (o Options) Validate() error {
	var v []string

	if o.Interval == 0 {
		v = append(v, "interval must be >= 1, or -1 (fact novelty), or -2 (fact-pair novelty); got 0")
	}
	if o.Interval < -2 {
		v = append(v, fmt.Sprintf("interval must be >= 1, -1, or -2; got %d", o.Interval))
	}
	if o.MaxPatternSize < 1 {
		v = append(v, fmt.Sprintf("max_pattern_size must be >= 1; got %d", o.MaxPatternSize))
	}
	if o.MaxPDBSize < 1 {
		v = append(v, fmt.Sprintf("max_pdb_size must be >= 1; got %d", o.MaxPDBSize))
	}
	if o.MaxOptimizationTime != 0 {
		v = append(v, unimplementedWording+": max_optimization_time must be 0 in the online variant")
	}
	if o.MaxOrders != 0 {
		v = append(v, unimplementedWording+": max_orders must be unset (0) in the online variant")
	}

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

var saturatorNames = map[string]Saturator{
	"ALL":       SaturatorAll,
	"PERIMSTAR": SaturatorPerimstar,
}

var deadEndTreatmentNames = map[string]DeadEndTreatment{
	"IGNORE":                DeadEndIgnore,
	"ALL":                   DeadEndAll,
	"NEW":                   DeadEndNew,
	"NEW_FOR_CURRENT_ORDER": DeadEndNewForCurrentOrder,
}

// enumDecodeHook builds a mapstructure.DecodeHookFunc that converts a
// string into one of T's named values via names.
func enumDecodeHook[T any](names map[string]T) mapstructure.DecodeHookFunc {
	target := reflect.TypeOf(*new(T))
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != target || f.Kind() != reflect.String {
			return data, nil
		}
		s := strings.ToUpper(data.(string))
		v, ok := names[s]
		if !ok {
			return nil, errors.Errorf("unrecognized %s value %q", target, data)
		}
		return v, nil
	}
}

var (
	saturatorHookFunc        = enumDecodeHook(saturatorNames)
	deadEndTreatmentHookFunc = enumDecodeHook(deadEndTreatmentNames)
	orderTypeHookFunc        = enumDecodeHook(orderTypeNames)
)
