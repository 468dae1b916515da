package models

// Book is a catalog entry. Ratings are on a 0-5 scale.
type Book struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Bestseller  bool    `json:"bestseller"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

type BookList struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}
