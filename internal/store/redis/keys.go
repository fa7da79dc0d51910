package redis

const (
	// KeyPrefixState is the prefix of every state record.
	KeyPrefixState = "curator:state:"
	// KeyAllStates is the set of record keys ever saved.
	KeyAllStates = "curator:states"
)

// StateKey returns the Redis key for a state record.
func StateKey(key string) string {
	return KeyPrefixState + key
}
