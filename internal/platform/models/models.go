package models

import "time"

// Attribute types.
const (
	AttributeTypeText   = "text"
	AttributeTypeNumber = "number"
)

// Category is a catalog category. Slug is the full materialized path
// ("parent/child"), Path holds every ancestor id in root-first order.
type Category struct {
	ID            int
	ParentID      *int
	Slug          string
	Name          string
	ImageURL      string
	ProductsCount int
	SortOrder     int
	Level         int
	Path          []int
	IsActive      bool
	CreatedAt     time.Time
}

// CategoryNode is a discovered category held in the discovery arena: a flat
// slice of nodes with parent references by index, -1 for roots. Nodes are
// ordered depth-first, so a parent always precedes its children.
type CategoryNode struct {
	Category
	ParentIndex int
}

// Attribute is a filterable product attribute definition.
// Type is inferred once at creation and not changed afterwards.
type Attribute struct {
	ID           int
	Slug         string
	Name         string
	Unit         *string
	Type         string
	IsFilterable bool
	IsSearchable bool
	CreatedAt    time.Time
}

// CategoryAttribute links an attribute to a category's filter panel.
type CategoryAttribute struct {
	CategoryID  int
	AttributeID int
	IsRequired  bool
	SortOrder   int
}

// Product is a catalog product. Slug is unique across the store.
type Product struct {
	ID               int
	CategoryID       int
	Slug             string
	Name             string
	SKU              *string
	Description      string
	ShortDescription string
	MetaTitle        string
	MetaDescription  string
	IsActive         bool
	InStock          bool
	CreatedAt        time.Time

	Images     []ProductImage
	Attributes []ProductValue
}

// ProductImage is a product image reference. At most one image per product
// has IsPrimary set.
type ProductImage struct {
	ID        int
	ProductID int
	URL       string
	SourceURL string
	IsPrimary bool
	SortOrder int
}

// ProductValue is a single attribute value of a product.
// Exactly one of ValueText and ValueNumber is populated.
type ProductValue struct {
	ProductID   int
	AttributeID int
	Name        string
	Unit        *string
	ValueText   *string
	ValueNumber *float64
}

// Checkpoint is the per-category ingestion progress record.
// LastPage only increases within a category's processing lifetime.
type Checkpoint struct {
	CategoryID       int
	CategorySlug     string
	AttributesParsed bool
	ProductsParsed   bool
	LastPage         int
	ProductsCount    int
	ErrorMessage     *string
	UpdatedAt        time.Time
}
