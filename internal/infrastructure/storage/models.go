package storage

import "time"

// AcceptedBook is a row in the accepted-inventory cache: a book the user
// committed to buying.
type AcceptedBook struct {
	ID          int64     `json:"id"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title,omitempty"`
	Author      string    `json:"author,omitempty"`
	SeriesName  string    `json:"series_name,omitempty"`
	SeriesIndex *float64  `json:"series_index,omitempty"`
	Condition   string    `json:"condition,omitempty"`
	Location    string    `json:"location,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// LotSuggestion is a cached suggestion to sell several books as one lot.
// A lot may reference books that never landed in the accepted-book cache
// individually, which is why its count acts as a floor in series analysis.
type LotSuggestion struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	SeriesName      string    `json:"series_name,omitempty"`
	CanonicalSeries string    `json:"canonical_series,omitempty"`
	BookCount       int       `json:"book_count"`
	Strategy        string    `json:"strategy,omitempty"`
	EstimatedValue  float64   `json:"estimated_value"`
	Active          bool      `json:"active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ScanEvent records one scan and what the user decided, including
// rejections. Rejected events power "go back and get this" prompts when
// a later scan turns out to complete a series.
type ScanEvent struct {
	ID           int64     `json:"id"`
	ISBN         string    `json:"isbn"`
	Title        string    `json:"title,omitempty"`
	SeriesName   string    `json:"series_name,omitempty"`
	SeriesIndex  *float64  `json:"series_index,omitempty"`
	Decision     string    `json:"decision"` // "ACCEPTED" or "REJECTED"
	LocationName string    `json:"location_name,omitempty"`
	ScannedAt    time.Time `json:"scanned_at"`
}
