package models

// Table names. These and the column names below are referenced literally by the
// canned query catalog.
const (
	TableArtifactMetadata = "artifact_metadata"
	TableArtifactMedia    = "artifact_media"
	TableArtifactColors   = "artifact_colors"
)

// ArtifactMetadata is one row of artifact_metadata, keyed by ID.
// Nil pointers are stored as NULL.
type ArtifactMetadata struct {
	ID             int64   `json:"id" yaml:"id" db:"id"`
	Title          *string `json:"title" yaml:"title" db:"title"`
	Culture        *string `json:"culture" yaml:"culture" db:"culture"`
	Dated          *string `json:"dated" yaml:"dated" db:"dated"`
	Period         *string `json:"period" yaml:"period" db:"period"`
	Division       *string `json:"division" yaml:"division" db:"division"`
	Medium         *string `json:"medium" yaml:"medium" db:"medium"`
	Dimensions     *string `json:"dimensions" yaml:"dimensions" db:"dimensions"`
	Weight         *string `json:"weight" yaml:"weight" db:"weight"`
	Department     *string `json:"department" yaml:"department" db:"department"`
	AccessionYear  *int64  `json:"accessionyear" yaml:"accessionyear" db:"accessionyear"`
	Classification string  `json:"classification" yaml:"classification" db:"classification"`
}

// ArtifactMedia is one row of artifact_media, keyed by ObjectID.
type ArtifactMedia struct {
	ObjectID   int64    `json:"object_id" yaml:"object_id" db:"object_id"`
	ImageCount *int64   `json:"imagecount" yaml:"imagecount" db:"imagecount"`
	MediaCount *int64   `json:"mediacount" yaml:"mediacount" db:"mediacount"`
	ColorCount *int64   `json:"colorcount" yaml:"colorcount" db:"colorcount"`
	Rank       *float64 `json:"rank" yaml:"rank" db:"rank"`
	DatedBegin *int64   `json:"datedbegin" yaml:"datedbegin" db:"datedbegin"`
	DatedEnd   *int64   `json:"datedend" yaml:"datedend" db:"datedend"`
}

// ArtifactColor is one row of artifact_colors, keyed by (ObjectID, Hue).
// Rows without a hue are never constructed.
type ArtifactColor struct {
	ObjectID   int64    `json:"object_id" yaml:"object_id" db:"object_id"`
	Hue        string   `json:"hue" yaml:"hue" db:"hue"`
	Percentage *float64 `json:"percentage" yaml:"percentage" db:"percentage"`
}

// ColorKey identifies an artifact_colors row.
type ColorKey struct {
	ObjectID int64
	Hue      string
}

// Key returns the composite primary key of the row.
func (c ArtifactColor) Key() ColorKey {
	return ColorKey{ObjectID: c.ObjectID, Hue: c.Hue}
}

// MetadataColumns lists artifact_metadata columns in insert order.
var MetadataColumns = []string{
	"id", "title", "culture", "dated", "period", "division", "medium",
	"dimensions", "weight", "department", "accessionyear", "classification",
}

// MediaColumns lists artifact_media columns in insert order.
var MediaColumns = []string{
	"object_id", "imagecount", "mediacount", "colorcount", "rank", "datedbegin", "datedend",
}

// ColorColumns lists artifact_colors columns in insert order.
var ColorColumns = []string{"object_id", "hue", "percentage"}

// Values returns the row's column values in MetadataColumns order.
func (m ArtifactMetadata) Values() []any {
	return []any{
		m.ID, nullable(m.Title), nullable(m.Culture), nullable(m.Dated), nullable(m.Period),
		nullable(m.Division), nullable(m.Medium), nullable(m.Dimensions), nullable(m.Weight),
		nullable(m.Department), nullable(m.AccessionYear), m.Classification,
	}
}

// Values returns the row's column values in MediaColumns order.
func (m ArtifactMedia) Values() []any {
	return []any{
		m.ObjectID, nullable(m.ImageCount), nullable(m.MediaCount), nullable(m.ColorCount),
		nullable(m.Rank), nullable(m.DatedBegin), nullable(m.DatedEnd),
	}
}

// Values returns the row's column values in ColorColumns order.
func (c ArtifactColor) Values() []any {
	return []any{c.ObjectID, c.Hue, nullable(c.Percentage)}
}

// nullable turns a nil pointer into an untyped nil so drivers bind NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
