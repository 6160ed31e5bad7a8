package models

// ClientRecord is the persisted form of a client.
type ClientRecord struct {
	ClientNumber int
	FirstName    string
	LastName     string
	EmailAddress string
}
