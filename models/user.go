package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles. It is fixed at registration.
type Role string

const (
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
	RoleQA        Role = "QA"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleDeveloper, RoleQA:
		return true
	}
	return false
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Role         Role               `bson:"role" json:"role"`
	Password     string             `bson:"password" json:"-"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Sanitized returns a copy with credential fields cleared, safe for responses
// and the request context.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}
