package cache

// Cache is a read cache placed in front of the durable stores.
type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Delete(key interface{})
}
