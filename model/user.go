// Package model defines database models
package model

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique; not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// Either "founder" or "mentor". Mentors may leave feedback on
	// pitches, founders may submit them
	Role      string `gorm:"default:founder" json:"role"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`

	Pitches  []Pitch    `gorm:"foreignKey:UserID" json:"-"`
	Feedback []Feedback `gorm:"foreignKey:MentorID" json:"-"`
}
