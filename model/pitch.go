package model

type Pitch struct {
	ID     uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID string `gorm:"index;not null" json:"userId"`

	Title                string `gorm:"not null" json:"title"`
	Category             string `gorm:"index" json:"category"`
	Description          string `json:"description"`
	Problem              string `json:"problem"`
	Solution             string `json:"solution"`
	MarketSize           string `json:"marketSize"`
	BusinessModel        string `json:"businessModel"`
	CompetitiveAdvantage string `json:"competitiveAdvantage"`
	Funding              string `json:"funding"`

	// Signed retrieval URLs generated at ingestion time. These are
	// stored once and never regenerated, so the S3 keys themselves
	// never need to leave the server. VideoURL is empty when the
	// pitch was submitted without a video
	VideoURL  string      `json:"videoUrl"`
	PhotoURLs StringSlice `gorm:"type:text" json:"photoUrls"`

	CreatedAt int64 `gorm:"not null" json:"createdAt"`
}
