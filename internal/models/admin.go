package models

import "time"

// Admin is a back-office account. AdminID and AdminUsername are each unique.
type Admin struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name          string    `json:"Name" gorm:"type:varchar(255);not null" bson:"Name"`
	AdminID       int64     `json:"AdminID" gorm:"column:admin_id;uniqueIndex;not null" bson:"AdminID"`
	AdminUsername string    `json:"adminUsername" gorm:"uniqueIndex;type:varchar(100);not null" bson:"adminUsername"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null" bson:"email"`
	Mobile        string    `json:"mobile" gorm:"type:varchar(32);not null" bson:"mobile"`
	Password      string    `json:"-" gorm:"type:varchar(255);not null" bson:"password"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

type AdminSummary struct {
	ID            string `json:"id"`
	AdminUsername string `json:"adminUsername"`
	Email         string `json:"email"`
}

func (a *Admin) Summary() AdminSummary {
	return AdminSummary{ID: a.ID, AdminUsername: a.AdminUsername, Email: a.Email}
}
