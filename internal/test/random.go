package test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/polkiloo/usersvc/internal/domain/model"
)

const usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789_"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomString returns a pseudo-random string of length in [minLen, maxLen].
func RandomString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	rngMu.Lock()
	defer rngMu.Unlock()

	buf := make([]byte, minLen+rng.Intn(maxLen-minLen+1))
	for i := range buf {
		buf[i] = usernameAlphabet[rng.Intn(len(usernameAlphabet))]
	}
	return string(buf)
}

// RandomUser builds an unsaved user with random credentials and the given roles.
func RandomUser(roles ...string) model.User {
	if roles == nil {
		roles = []string{}
	}
	return model.User{
		Username: RandomString(4, 16),
		Password: RandomString(8, 24),
		Roles:    roles,
	}
}
