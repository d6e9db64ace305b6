package models

import "time"

type User struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
