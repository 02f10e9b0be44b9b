package models

import (
	"time"
)

// Person is one registry row. PersonID is the operator-chosen numeric
// identity the recognizer is trained against; ID is only the surrogate key.
type Person struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	PersonID    int    `gorm:"uniqueIndex;not null" json:"person_id"`
	DisplayName string `gorm:"uniqueIndex;not null" json:"display_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Person) TableName() string {
	return "people"
}
