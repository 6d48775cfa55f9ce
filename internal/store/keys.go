package store

import "strings"

// blobKey returns the badger key for a blob name.
func blobKey(name string) []byte {
	k := make([]byte, 0, len(CachePrefix)+len(name))
	k = append(k, CachePrefix...)
	return append(k, name...)
}

// blobName strips CachePrefix from a badger key.
func blobName(key []byte) string {
	return strings.TrimPrefix(string(key), CachePrefix)
}
