package model

import "time"

type Token struct {
	Value   string
	UserID  int64
	Expires time.Time
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expires     time.Time `json:"expires"`
	ExpiresIn   int64     `json:"expires_in"`
}

type SignUpRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	ShortBiography string `json:"short_biography"`
	BirthDate      string `json:"birth_date"`
	Country        string `json:"country"`
	City           string `json:"city"`
}

type SignUpResponse struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Token    TokenResponse `json:"token"`
}

type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CredentialsResponse struct {
	ProfileResponse
	Token TokenResponse `json:"token"`
}
