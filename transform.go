package nibtrie

import (
	"reflect"
	"unsafe"
)

// Ordinal is the set of built-in numeric kinds nibtrie can use as a key.
// Defined (named) types over these underlying kinds are accepted too, so
// type Age uint8 satisfies Ordinal.
type Ordinal interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~int | ~uint | ~float32 | ~float64
}

// Transform maps a key to and from an unsigned-lexicographic nibble
// representation: for any keys a, b of type K, a < b under K's natural
// order iff Apply(a) < Apply(b) under plain unsigned integer order.
// Restore is the exact inverse of Apply.
//
// A Map never calls Transform concurrently with a mutation of the same
// Map, so implementations need no internal synchronization.
type Transform[K Ordinal] interface {
	Apply(k K) uint64
	Restore(bits uint64) K
}

type numKind uint8

const (
	kindUnsigned numKind = iota
	kindSigned
	kindFloat
)

// classify inspects K's reflect.Kind once (at Map construction) and
// returns the family of ordering transform it needs plus its width in
// bytes. reflect.Kind is used instead of a type switch on any(zero) so
// that defined types (type Age uint8) classify by underlying kind rather
// than failing to match a concrete-type case.
func classify[K Ordinal]() (numKind, int) {
	var zero K
	width := int(unsafe.Sizeof(zero))

	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return kindSigned, width
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return kindUnsigned, width
	case reflect.Float32, reflect.Float64:
		return kindFloat, width
	default:
		invariantf("nibtrie: unsupported key kind %v", reflect.TypeOf(zero).Kind())
		panic("unreachable")
	}
}

// rawBits reinterprets k's in-memory representation as an unsigned
// integer of the same width, the same trick math.Float64bits uses for
// floats. Safe because width is exactly unsafe.Sizeof(k) for every
// Ordinal kind.
func rawBits[K Ordinal](k K, width int) uint64 {
	switch width {
	case 1:
		return uint64(*(*uint8)(unsafe.Pointer(&k)))
	case 2:
		return uint64(*(*uint16)(unsafe.Pointer(&k)))
	case 4:
		return uint64(*(*uint32)(unsafe.Pointer(&k)))
	case 8:
		return *(*uint64)(unsafe.Pointer(&k))
	default:
		invariantf("nibtrie: unsupported key width %d", width)
		panic("unreachable")
	}
}

func fromRawBits[K Ordinal](bits uint64, width int) K {
	var k K
	switch width {
	case 1:
		v := uint8(bits)
		*(*uint8)(unsafe.Pointer(&k)) = v
	case 2:
		v := uint16(bits)
		*(*uint16)(unsafe.Pointer(&k)) = v
	case 4:
		v := uint32(bits)
		*(*uint32)(unsafe.Pointer(&k)) = v
	case 8:
		*(*uint64)(unsafe.Pointer(&k)) = bits
	default:
		invariantf("nibtrie: unsupported key width %d", width)
	}
	return k
}

func maskWidth(bits uint64, width int) uint64 {
	if width >= 8 {
		return bits
	}
	return bits & (uint64(1)<<(8*width) - 1)
}

func signBitFor(width int) uint64 {
	return uint64(1) << (8*width - 1)
}

// defaultTransform implements Transform[K] for every built-in Ordinal
// kind: identity for unsigned integers, sign-bit flip for signed
// integers, and the standard sign-and-magnitude-to-biased-exponent
// remap for IEEE-754 floats used by e.g. Lucene's NumericUtils and
// SQLite's sortable-float encoding.
type defaultTransform[K Ordinal] struct {
	kind  numKind
	width int
}

// DefaultTransform returns the canonical Transform for K, used by NewMap
// unless overridden with WithTransform.
func DefaultTransform[K Ordinal]() Transform[K] {
	kind, width := classify[K]()
	return &defaultTransform[K]{kind: kind, width: width}
}

func (t *defaultTransform[K]) Apply(k K) uint64 {
	raw := rawBits(k, t.width)
	switch t.kind {
	case kindUnsigned:
		return maskWidth(raw, t.width)
	case kindSigned:
		return maskWidth(raw^signBitFor(t.width), t.width)
	case kindFloat:
		return maskWidth(applyFloatBits(raw, t.width), t.width)
	default:
		invariantf("nibtrie: unreachable transform kind %v", t.kind)
		panic("unreachable")
	}
}

func (t *defaultTransform[K]) Restore(bits uint64) K {
	switch t.kind {
	case kindUnsigned:
		return fromRawBits[K](bits, t.width)
	case kindSigned:
		return fromRawBits[K](bits^signBitFor(t.width), t.width)
	case kindFloat:
		return fromRawBits[K](restoreFloatBits(bits, t.width), t.width)
	default:
		invariantf("nibtrie: unreachable transform kind %v", t.kind)
		panic("unreachable")
	}
}

// applyFloatBits flips the sign bit; if the float was negative (so the
// sign bit is now clear), it also flips every remaining bit, which is
// equivalent to a full bitwise complement of raw. Positive floats end up
// ordered above negative floats, and within each half, unsigned order on
// the transformed bits matches numeric order.
func applyFloatBits(raw uint64, width int) uint64 {
	sign := signBitFor(width)
	flipped := raw ^ sign
	if flipped&sign == 0 {
		return ^raw
	}
	return flipped
}

// restoreFloatBits is the exact inverse of applyFloatBits: a set sign bit
// in the transformed value means the original float was non-negative (a
// plain sign-bit flip undoes it); a clear sign bit means the original
// was negative (a full bitwise complement undoes it).
func restoreFloatBits(bits uint64, width int) uint64 {
	sign := signBitFor(width)
	if bits&sign != 0 {
		return bits ^ sign
	}
	return ^bits
}
