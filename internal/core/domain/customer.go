package domain

import "strings"

const minContactLength = 6

var contactStripper = strings.NewReplacer(
	`"`, "",
	"'", "",
	"\t", "",
	"\n", "",
	";", "",
	",", "",
)

type Customer struct {
	id        int64
	firstName string
	lastName  string
	contacts  []string
}

// NewCustomer returns a customer without id. Use SetID to assign one.
func NewCustomer(firstName, lastName string) *Customer {
	return &Customer{
		id:        -1,
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
	}
}

// ID returns the id and whether one has been assigned.
func (c *Customer) ID() (int64, bool) {
	return c.id, c.id >= 0
}

// SetID assigns the id once; later calls with a valid id are ignored.
func (c *Customer) SetID(id int64) error {
	if id < 0 {
		return NewInvalidArgument("customer id %d is negative", id)
	}
	if c.id < 0 {
		c.id = id
	}
	return nil
}

func (c *Customer) FirstName() string { return c.firstName }
func (c *Customer) LastName() string  { return c.lastName }

func (c *Customer) SetName(firstName, lastName string) {
	c.firstName = strings.TrimSpace(firstName)
	c.lastName = strings.TrimSpace(lastName)
}

// AddContact stores a sanitized contact. Duplicates are dropped silently.
func (c *Customer) AddContact(contact string) error {
	cleaned := strings.TrimSpace(contactStripper.Replace(contact))
	if len([]rune(cleaned)) < minContactLength {
		return NewInvalidArgument("contact %q shorter than %d characters", contact, minContactLength)
	}
	for _, existing := range c.contacts {
		if existing == cleaned {
			return nil
		}
	}
	c.contacts = append(c.contacts, cleaned)
	return nil
}

func (c *Customer) Contacts() []string {
	out := make([]string, len(c.contacts))
	copy(out, c.contacts)
	return out
}

func (c *Customer) ContactsCount() int { return len(c.contacts) }

// RemoveContact ignores out-of-range indexes.
func (c *Customer) RemoveContact(i int) {
	if i >= 0 && i < len(c.contacts) {
		c.contacts = append(c.contacts[:i], c.contacts[i+1:]...)
	}
}

func (c *Customer) ClearContacts() { c.contacts = nil }
