package data

type Story struct {
	ID            string
	Title         string
	Description   string
	CoverImageURL string
	PDFFormat     string
	Status        string // "fetched", "exporting", "exported", "error"
}

type Page struct {
	ID         string
	StoryID    string
	PageNumber int
	Text       string
	ImageURL   string
}
