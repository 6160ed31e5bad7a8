// Package client models the bank's clients: the people who own accounts
// and, by default, receive their accounts' notifications.
package client

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
)

// DefaultEmail replaces an address that does not parse.
const DefaultEmail = "email@pixell-river.com"

// ErrBlankName is returned when a first or last name is blank.
var ErrBlankName = errors.New("name cannot be blank")

// Client is an account owner.
type Client struct {
	number    int
	firstName string
	lastName  string
	email     string
}

// New validates and creates a client. An invalid e-mail address is replaced
// with DefaultEmail rather than rejected.
func New(number int, firstName, lastName, email string) (*Client, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, errors.Wrap(ErrBlankName, "first name")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, errors.Wrap(ErrBlankName, "last name")
	}
	return &Client{
		number:    number,
		firstName: firstName,
		lastName:  lastName,
		email:     normalizeEmail(email),
	}, nil
}

func normalizeEmail(s string) string {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return DefaultEmail
	}
	return addr.Address
}

func (c *Client) Number() int       { return c.number }
func (c *Client) FirstName() string { return c.firstName }
func (c *Client) LastName() string  { return c.lastName }
func (c *Client) Email() string     { return c.email }

// FullName is "First Last".
func (c *Client) FullName() string {
	return c.firstName + " " + c.lastName
}

func (c *Client) String() string {
	return fmt.Sprintf("Client Number: %d\nFirst Name: %s\nLast Name: %s\nEmail Address: %s",
		c.number, c.firstName, c.lastName, c.email)
}
