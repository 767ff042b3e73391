package model

type Feedback struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PitchID  uint   `gorm:"index;not null" json:"pitchId"`
	MentorID string `gorm:"index;not null" json:"mentorId"`

	Content string `gorm:"not null" json:"content"`
	// 1-5, 0 means the mentor left a comment without a rating
	Rating    int   `json:"rating"`
	CreatedAt int64 `gorm:"not null" json:"createdAt"`
}
