package domain

// User is the identity record for people operating the inventory.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	IsAdmin        bool
}
