package zmph

// tableEntry is one intermediate table cell. It is a tagged variant packed
// into a signed integer:
//
//	0      unassigned (no key has this primary hash)
//	d > 0  displacement: the bucket's keys live at H(d, key) mod n
//	< 0    direct slot: -(slot+1), used for single-key buckets
//
// Displacements start at 1, so the three ranges never overlap.
type tableEntry int64

type entryKind uint8

const (
	entryUnassigned entryKind = iota
	entryDisplacement
	entryDirectSlot
)

func (k entryKind) String() string {
	switch k {
	case entryUnassigned:
		return "unassigned"
	case entryDisplacement:
		return "displacement"
	case entryDirectSlot:
		return "direct-slot"
	default:
		return "unknown"
	}
}

// displacementEntry encodes displacement d. Precondition: d >= 1.
func displacementEntry(d uint32) tableEntry {
	return tableEntry(d)
}

// directSlotEntry encodes a direct slot. Precondition: slot >= 0.
func directSlotEntry(slot int) tableEntry {
	return tableEntry(-int64(slot) - 1)
}

func (e tableEntry) kind() entryKind {
	switch {
	case e > 0:
		return entryDisplacement
	case e < 0:
		return entryDirectSlot
	default:
		return entryUnassigned
	}
}

// displacement returns the displacement seed. Only valid for entryDisplacement.
func (e tableEntry) displacement() uint32 {
	return uint32(e)
}

// directSlot returns the encoded slot. Only valid for entryDirectSlot.
func (e tableEntry) directSlot() int {
	return int(-e - 1)
}
