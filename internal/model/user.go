package model

import "time"

type User struct {
	ID             int64
	Username       string
	PasswordHash   string
	IsActive       bool
	ShortBiography string
	BirthDate      *time.Time
	Country        string
	City           string
	CreatedAt      time.Time
}

// NewUser is a registration after the password has been hashed.
type NewUser struct {
	Username       string
	PasswordHash   string
	ShortBiography string
	BirthDate      *time.Time
	Country        string
	City           string
}

type ProfileUpdate struct {
	ShortBiography string
	BirthDate      *time.Time
	Country        string
	City           string
	// Interests replaces the user's interest set when non-nil.
	Interests []string
}

type Interest struct {
	ID       int64  `json:"id"`
	Interest string `json:"interest"`
}

type Profile struct {
	User
	Interests           []Interest
	SubscribersNumber   int64
	SubscriptionsNumber int64
	PostsNumber         int64
}

// UserView is what other users see, with the author's latest posts attached.
type UserView struct {
	User
	Interests         []Interest
	SubscribersNumber int64
	Posts             []Post
}
