package model

// Session is the authenticated identity held by the client.
// User and Token are either both set or both empty.
type Session struct {
	User  *User
	Token string
}

func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
