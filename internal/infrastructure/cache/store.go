package cache

import "time"

// Store is a small key-value store used for short-lived state such as
// OAuth state tokens.
type Store interface {
	Set(key string, value string, expiration time.Duration)
	Get(key string) (string, bool)
	Delete(key string)
}
