package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// HCLBatch represents the HCL batch file structure
type HCLBatch struct {
	BatchID     *string         `hcl:"batch_id,optional"`
	Conversions []HCLConversion `hcl:"conversion,block"`
}

// HCLConversion represents a single conversion block, labelled with its ID
type HCLConversion struct {
	ID        string  `hcl:"id,label"`
	Date      *string `hcl:"date,optional"`
	Period    *int    `hcl:"settlement_period,optional"`
	Boundary  *string `hcl:"boundary,optional"`
	Timestamp *int64  `hcl:"timestamp,optional"`
	Datetime  *string `hcl:"datetime,optional"`
	Timezone  *string `hcl:"timezone,optional"`
}

// ParseBatch parses HCL content into a batch. Expressions are evaluated with
// the settlement functions bound to conv, or to the default GB converter when
// conv is nil.
func ParseBatch(hclContent string, conv *settlement.Converter) (*batch.Batch, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclContent), "batch.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}

	return decodeBatch(file.Body, conv)
}

func decodeBatch(body hcl.Body, conv *settlement.Converter) (*batch.Batch, error) {
	if conv == nil {
		var err error
		if conv, err = settlement.Default(); err != nil {
			return nil, err
		}
	}

	var hclBatch HCLBatch
	diags := gohcl.DecodeBody(body, NewEvalContext(conv), &hclBatch)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL body: %s", diags.Error())
	}

	return convertHCLBatch(&hclBatch), nil
}

// convertHCLBatch converts the decoded HCL structures to a batch
func convertHCLBatch(hclBatch *HCLBatch) *batch.Batch {
	b := &batch.Batch{
		Requests: make([]batch.Request, 0, len(hclBatch.Conversions)),
	}
	if hclBatch.BatchID != nil {
		b.ID = *hclBatch.BatchID
	}

	for _, c := range hclBatch.Conversions {
		req := batch.Request{
			ID:        c.ID,
			Timestamp: c.Timestamp,
		}
		if c.Date != nil {
			req.Date = *c.Date
		}
		if c.Period != nil {
			req.Period = *c.Period
		}
		if c.Boundary != nil {
			req.Boundary = *c.Boundary
		}
		if c.Datetime != nil {
			req.Datetime = *c.Datetime
		}
		if c.Timezone != nil {
			req.Timezone = *c.Timezone
		}
		b.Requests = append(b.Requests, req)
	}

	return b
}

// IsHCL attempts to detect if the given content is in HCL format
func IsHCL(content []byte) bool {
	_, diags := hclsyntax.ParseConfig(content, "", hcl.Pos{Line: 1, Column: 1})
	return !diags.HasErrors()
}
