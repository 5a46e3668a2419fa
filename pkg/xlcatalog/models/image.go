package models

// Anchor is a cell position in the sheet's 0-based drawing coordinates.
type Anchor struct {
	Row int
	Col int
}

// Cell returns the anchor as 1-based (row, column).
func (a Anchor) Cell() (row, col int) {
	return a.Row + 1, a.Col + 1
}

// EmbeddedImage is a picture found in the sheet drawing.
type EmbeddedImage struct {
	// Anchor is the from-cell of the picture anchor.
	Anchor Anchor
	// Format is the declared format, usually the media part extension.
	Format string
	// Data is the raw image payload.
	Data []byte
	// Position is the picture's index in drawing document order.
	Position int
	// Name is the picture name from the drawing, if any.
	Name string
}

// AnchoredImage is an image bound to a product row.
type AnchoredImage struct {
	// Row is the 1-based row of the owning ProductRow.
	Row  int
	Seed string
	Ext  string
	Data []byte
}

// LocalAsset is a materialized image file.
type LocalAsset struct {
	Row  int
	Path string
}
