package user

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	AvatarURL    string
	CreatedAt    time.Time
}
