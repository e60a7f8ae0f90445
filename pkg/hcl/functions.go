package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// NewEvalContext creates the evaluation context for batch files:
//
//	sp_to_ts(date, sp[, boundary])  epoch seconds of a period boundary
//	ts_to_date(ts)                  settlement date of a period-ending instant
//	ts_to_sp(ts)                    settlement period of a period-ending instant
//	max_sp(date)                    number of periods on a date
//
// and the market_zone variable.
func NewEvalContext(conv *settlement.Converter) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"market_zone": cty.StringVal(settlement.MarketZone),
		},
		Functions: map[string]function.Function{
			"sp_to_ts":   spToTSFunc(conv),
			"ts_to_date": tsToDateFunc(conv),
			"ts_to_sp":   tsToSPFunc(conv),
			"max_sp":     maxSPFunc(conv),
		},
	}
}

func spToTSFunc(conv *settlement.Converter) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "date", Type: cty.String},
			{Name: "settlement_period", Type: cty.Number},
		},
		VarParam: &function.Parameter{Name: "boundary", Type: cty.String},
		Type:     function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			d, err := settlement.ParseDate(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}

			var sp int
			if err := gocty.FromCtyValue(args[1], &sp); err != nil {
				return cty.UnknownVal(cty.Number), err
			}

			var b settlement.Boundary
			if len(args) > 2 {
				if len(args) > 3 {
					return cty.UnknownVal(cty.Number), function.NewArgErrorf(3, "only one boundary may be given")
				}
				if b, err = settlement.ParseBoundary(args[2].AsString()); err != nil {
					return cty.UnknownVal(cty.Number), function.NewArgError(2, err)
				}
			}

			sec, err := conv.DateSPToEpoch(d, sp, b)
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			return cty.NumberIntVal(sec), nil
		},
	})
}

func tsToDateFunc(conv *settlement.Converter) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "timestamp", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			dsp, err := epochToDateSP(conv, args[0])
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(dsp.Date.String()), nil
		},
	})
}

func tsToSPFunc(conv *settlement.Converter) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "timestamp", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			dsp, err := epochToDateSP(conv, args[0])
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			return cty.NumberIntVal(int64(dsp.Period)), nil
		},
	})
}

func maxSPFunc(conv *settlement.Converter) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "date", Type: cty.String}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			d, err := settlement.ParseDate(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			return cty.NumberIntVal(int64(conv.MaxPeriod(d))), nil
		},
	})
}

func epochToDateSP(conv *settlement.Converter, val cty.Value) (settlement.DateSP, error) {
	var sec int64
	if err := gocty.FromCtyValue(val, &sec); err != nil {
		return settlement.DateSP{}, err
	}
	return conv.EpochToDateSP(sec)
}
