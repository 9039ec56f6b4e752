package domain

import "time"

// ClientStatus controls whether a client may submit funding requests.
type ClientStatus string

const (
	ClientStatusActive  ClientStatus = "ACTIVE"
	ClientStatusBlocked ClientStatus = "BLOCKED"
)

// Client is a broker customer. Authentication is handled upstream; the
// service only needs the identity and the blocked flag.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    ClientStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
