package redis

const (
	// KeyPrefixLink is the prefix for cached link keys
	KeyPrefixLink = "sniplink:link:"
)

// LinkKey returns the Redis key for a cached link by code
func LinkKey(code string) string {
	return KeyPrefixLink + code
}
