package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	UserID      string    `json:"userId" bson:"userid"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Password    string    `json:"-" bson:"password"`
	PhoneNumber string    `json:"phoneNumber,omitempty" bson:"phonenumber,omitempty"`
	Role        Role      `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}
