package nibtrie

// tombstone is the concrete type of the single, process-wide sentinel
// value every empty trie slot holds. It carries no data; every node and
// cursor in every Map, of every key/value instantiation, shares the
// exact same *tombstone so a slot's emptiness can be tested with a
// single interface-identity comparison (slot == sentinelSlot) rather
// than a type switch.
type tombstone struct{}

// sentinelSlot is installed in every one of a node's 16 slots at
// allocation time, and restored to any slot whose cell or child node is
// removed. It is never read through or written to; only its identity is
// ever observed. A plain package-level variable is enough to make this a
// true process-wide singleton: Go guarantees package-level variables are
// initialized exactly once, before any other code in the package runs,
// which is the same contract sync.OnceValue would buy here at the cost
// of an extra indirection on every check.
var sentinelSlot any = &tombstone{}
