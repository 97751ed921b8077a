package models

import "time"

// LinkSession is the short-lived token handed to the client-side linking widget.
type LinkSession struct {
	Token      string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
}

// Exchange is the outcome of trading a public token for a long-lived access credential.
type Exchange struct {
	AccessToken     string
	ItemID          string
	InstitutionName string
	Accounts        []ExternalAccount
}
