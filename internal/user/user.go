package user

import (
	"os"
	"os/user"
	"strings"
)

// EnvUser overrides the detected identity, e.g. when several people vote
// from one shared terminal.
const EnvUser = "RETRO_USER"

// GetCurrentUsername returns the identity used for authorship and votes.
// It tries, in order: RETRO_USER, user.Current(), the USER environment
// variable, and finally "unknown" so the result is never empty.
func GetCurrentUsername() string {
	if name := strings.TrimSpace(os.Getenv(EnvUser)); name != "" {
		return name
	}

	currentUser, err := user.Current()
	if err != nil || currentUser.Username == "" {
		username := os.Getenv("USER")
		if username == "" {
			return "unknown"
		}
		return username
	}
	return currentUser.Username
}
