package report

import "github.com/okian/roas/internal/domain/model"

// Dimension is one group-by key over combined records.
type Dimension struct {
	Name  string
	Value func(model.CombinedRecord) string
}

// Supported dimensions.
var (
	DimProduct  = Dimension{Name: "product", Value: func(r model.CombinedRecord) string { return r.Product }}
	DimPlatform = Dimension{Name: "platform", Value: func(r model.CombinedRecord) string { return r.Platform }}
	DimName     = Dimension{Name: "name", Value: func(r model.CombinedRecord) string { return r.Name }}
	DimCategory = Dimension{Name: "category", Value: func(r model.CombinedRecord) string { return r.Category }}
	DimBasis    = Dimension{Name: "basis", Value: func(r model.CombinedRecord) string { return r.Basis }}
)
