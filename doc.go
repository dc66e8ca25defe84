// Package tickcache is a bounded in-process key/value cache combining a
// hashed timer wheel for TTL expiration with an LRU list for
// capacity-bound eviction, sharing one arena-allocated entry pool.
//
// Create a Cache with New, supplying a maximum entry count and any
// Options needed beyond the defaults:
//
//	c, err := tickcache.New[string, []byte](16384)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	c.Set("k", []byte("v"), time.Minute)
//	v, ok := c.Get("k")
package tickcache
