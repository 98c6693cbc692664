package models

import "time"

// User is a customer account. Password only ever holds a bcrypt hash and is
// never serialised to JSON.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	FullName  string    `json:"fullName" gorm:"type:varchar(255);not null" bson:"fullName"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" bson:"username"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null" bson:"email"`
	Mobile    string    `json:"mobile" gorm:"type:varchar(32);not null" bson:"mobile"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is what a delete returns.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}
