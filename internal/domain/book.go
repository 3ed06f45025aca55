// Package domain contains the core business entities and domain logic for the BookWorm library.
package domain

// Book represents a book in the catalog.
// The catalog owns and mutates books; the library engine treats them as
// read-only values fetched by reference.
type Book struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Genre           GenreRef `json:"genre"`
	ISBN            string   `json:"isbn,omitempty"`
	Description     string   `json:"description,omitempty"`
	CoverPath       string   `json:"cover_path,omitempty"`
	TotalPages      int      `json:"total_pages"`
	PublicationYear int      `json:"publication_year,omitempty"`
	AverageRating   float64  `json:"average_rating"`
	RatingCount     int      `json:"rating_count"`
	ShelveCount     int      `json:"shelve_count"`
}

// GenreRef is the denormalized genre reference carried on a book.
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"` // Display name: "Science Fiction"
	Slug string `json:"slug"` // URL-safe key: "science-fiction"
}

// Genre represents a category for classifying books.
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	BookCount   int    `json:"book_count"` // Books carrying this genre
}

// Ref returns the denormalized reference embedded on books.
func (g *Genre) Ref() GenreRef {
	return GenreRef{ID: g.ID, Name: g.Name, Slug: g.Slug}
}
