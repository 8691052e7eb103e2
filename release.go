//go:build !pagecache_debug

package pagecache

const debugging = false
