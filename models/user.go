package models

import "time"

// User owns blogs. ExternalID is the identity provider's user id and is
// empty for users created through the API.
// Collection / table: users
type User struct {
	ID           int64     `bson:"_id" json:"id"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
	ExternalID   string    `bson:"external_id,omitempty" json:"external_id,omitempty"`
	Name         string    `bson:"name" json:"name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	Email        string    `bson:"email" json:"email"`
	WritingStyle string    `bson:"writing_style" json:"writing_style"`
}

type UserPatch struct {
	Name         *string
	LastName     *string
	Email        *string
	WritingStyle *string
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.WritingStyle != nil {
		u.WritingStyle = *p.WritingStyle
	}
}
