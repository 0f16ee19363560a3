package domain

import "time"

// Village is a registered settlement that field data is reported against.
type Village struct {
	ID              int64
	Name            string
	District        string
	State           string
	Latitude        *float64
	Longitude       *float64
	Population      *int
	PrimaryLanguage string
	CreatedAt       time.Time
}
