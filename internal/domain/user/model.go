package user

import (
	"strings"
	"time"
)

// User is a player known to the upstream API by an opaque id (ouid).
type User struct {
	ID              int64
	OUID            string
	Nickname        string
	LastRequestedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NormalizeNickname(v string) string {
	return strings.TrimSpace(v)
}
