// Package nibtrie provides an ordered associative container keyed by a
// fixed-width, byte-addressable key, implemented as a fan-out-16 digital
// trie over the successive nibbles of an order-transformed key.
//
// Lookup, insertion, deletion and membership are all O(W) in the trie
// depth W = 2*sizeof(key), independent of the number of stored elements.
// Slot addresses are stable across insertion of any key and across
// deletion of any other key, so a *V obtained from Get/At/Insert remains
// valid until its own key is erased or the map is cleared.
//
// Internally, nibtrie is a simplified, fixed-depth descendant of the
// multibit routing trie used by github.com/metacubex/bart and
// github.com/gaissmai/bart: instead of a 256-way, path-compressing,
// prefix-length-aware octet trie built for longest-prefix-match, nibtrie
// uses a 16-way, full-depth, no-path-compression trie built for exact,
// stably-addressed point lookups.
package nibtrie
