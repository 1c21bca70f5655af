package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// Redis key helpers

func KeySession(uid string) string  { return "user:session:" + uid }
func KeyResetToken(t string) string { return "pwd:reset:token:" + t }

// GenToken returns n random bytes encoded as URL-safe base64.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
