package models

// CatalogMeta describes the run that produced a catalog.
type CatalogMeta struct {
	GeneratedAt      string `json:"generatedAt"`
	RunID            string `json:"runId"`
	SourceFile       string `json:"sourceFile"`
	Sheet            string `json:"sheet"`
	Count            int    `json:"count"`
	ImagesExtracted  int    `json:"imagesExtracted"`
	ImagesUploaded   int    `json:"imagesUploaded"`
	MakePublic       bool   `json:"makePublic"`
	HeaderRow        int    `json:"headerRow"`
	ImageColumnIndex int    `json:"imageColumnIndex"`
}

// Catalog is the document written at the end of a run.
type Catalog struct {
	Meta     CatalogMeta  `json:"meta"`
	Products []ProductRow `json:"products"`
}
