package absdom

import (
	"fmt"
	"sync/atomic"
)

// Addr is a symbolic address. It identifies a heap location and is only
// ever compared by identity.
type Addr uint64

var lastAddr atomic.Uint64

// Fresh allocates an address that has never been handed out before.
// Addresses are never reused, even across independent states.
func Fresh() Addr {
	return Addr(lastAddr.Add(1))
}

// String returns a short printable name such as "v42".
func (a Addr) String() string {
	return fmt.Sprintf("v%d", uint64(a))
}

// Ident names a program variable slot, e.g. the return slot of a call.
type Ident string
