package wordpress

import "encoding/base64"

// Credentials is a WordPress username and application password.
type Credentials struct {
	User     string
	Password string
}

// Complete reports whether both fields are set.
func (c Credentials) Complete() bool {
	return c.User != "" && c.Password != ""
}

// Header returns the Authorization header value for Basic authentication.
func (c Credentials) Header() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.User+":"+c.Password))
}

// ResolveCredentials picks the pair used for one request. Each field falls back
// independently: override first, then stored. The second return value is false
// when no complete pair results, in which case the request goes out unauthenticated.
func ResolveCredentials(stored, override Credentials) (Credentials, bool) {
	resolved := Credentials{User: override.User, Password: override.Password}
	if resolved.User == "" {
		resolved.User = stored.User
	}
	if resolved.Password == "" {
		resolved.Password = stored.Password
	}
	if !resolved.Complete() {
		return Credentials{}, false
	}
	return resolved, true
}
