package models

import "time"

// Blog is a registered WordPress site.
// Collection / table: blogs
type Blog struct {
	ID        int64     `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Name      string    `bson:"name" json:"name"`
	// APIURL is stored as entered; endpoints are derived from it at use time.
	APIURL   string `bson:"api_url" json:"api_url"`
	WPUser   string `bson:"wp_user" json:"wp_user"`
	APIKey   string `bson:"api_key" json:"-"`
	Favicon  string `bson:"favicon" json:"favicon"`
	Topic    string `bson:"topic" json:"topic"`
	Keywords string `bson:"keywords" json:"keywords"`
	OwnerID  int64  `bson:"owner_id" json:"owner_id"`
}

// HasCredentials reports whether both the username and application password are stored.
func (b *Blog) HasCredentials() bool {
	return b.WPUser != "" && b.APIKey != ""
}

// BlogPatch carries a partial update. Nil fields are left untouched.
type BlogPatch struct {
	Name     *string
	APIURL   *string
	WPUser   *string
	APIKey   *string
	Favicon  *string
	Topic    *string
	Keywords *string
}

// Apply copies the set fields of p onto b.
func (p BlogPatch) Apply(b *Blog) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&b.Name, p.Name)
	set(&b.APIURL, p.APIURL)
	set(&b.WPUser, p.WPUser)
	set(&b.APIKey, p.APIKey)
	set(&b.Favicon, p.Favicon)
	set(&b.Topic, p.Topic)
	set(&b.Keywords, p.Keywords)
}
