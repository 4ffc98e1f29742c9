package redis

import "github.com/mcoot/hardercore-api/internal/model"

// keys builds the Redis keys under one prefix
type keys struct {
	prefix string
}

func newKeys(prefix string) keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keys{prefix: prefix}
}

// profile is the string key holding one resolved profile as JSON
func (k keys) profile(id model.PlayerID) string {
	return k.prefix + ":profile:" + string(id)
}

// profileIndex is the sorted set of cached profile ids scored by expiry
func (k keys) profileIndex() string {
	return k.prefix + ":idx:profile-expiry"
}
