package domain

// StoredSession is what the token store persists for one workspace: the
// bearer token and the identity cached alongside it.
type StoredSession struct {
	Token string
	User  *User
}

// HasToken reports whether a bearer token is present.
func (s StoredSession) HasToken() bool {
	return s.Token != ""
}
