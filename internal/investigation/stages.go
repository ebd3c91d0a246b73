package investigation

import "fmt"

// Stage identifiers, in run order.
const (
	StageCompanyName = "company-name"
	StageFounders    = "founders"
	StageImports     = "imports"
	StageSourcing    = "sourcing"
)

// DeriveStages builds the four fixed stage descriptors for a run. The
// derivation is pure: the same (brand, category) pair always yields
// identical queries, and descriptors are never mutated afterwards.
func DeriveStages(brand, category string) []StageDescriptor {
	return []StageDescriptor{
		{
			ID:          StageCompanyName,
			Title:       "Company Identity",
			Query:       fmt.Sprintf("%q company official website about brand", brand),
			Description: "Who is behind the brand: legal entity, website, self-description.",
			Priority:    1,
		},
		{
			ID:          StageFounders,
			Title:       "Founders & Leadership",
			Query:       fmt.Sprintf("%q founder CEO owner who started company", brand),
			Description: "Founders, executives and ownership of the brand.",
			Priority:    2,
		},
		{
			ID:          StageImports,
			Title:       "Import Records",
			Query:       fmt.Sprintf("%q import records customs shipment data supplier", brand),
			Description: "Customs and shipment records hinting at upstream suppliers.",
			Priority:    3,
		},
		{
			ID:          StageSourcing,
			Title:       "Sourcing & Manufacturing",
			Query:       fmt.Sprintf("%q %s manufacturer factory sourcing made in", brand, category),
			Description: "Where and by whom the products are actually made.",
			Priority:    4,
		},
	}
}
