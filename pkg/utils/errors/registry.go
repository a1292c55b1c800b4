package errors

import (
	"fmt"
	"sync"
)

// registry 按错误码索引所有已注册的 Errno。
var registry = struct {
	sync.RWMutex
	codes map[int]*Errno
}{codes: map[int]*Errno{}}

// Register adds e to the code table so responses can be translated back
// into their Errno. Registering the same code twice is a programming error
// and panics.
func Register(e *Errno) *Errno {
	registry.Lock()
	defer registry.Unlock()

	if prev := registry.codes[e.Code]; prev != nil {
		panic(fmt.Sprintf("errno %d registered twice (%q, %q)", e.Code, prev.MessageEN, e.MessageEN))
	}
	registry.codes[e.Code] = e
	return e
}

// Lookup 根据错误码查找 Errno。
func Lookup(code int) (*Errno, bool) {
	registry.RLock()
	e, ok := registry.codes[code]
	registry.RUnlock()
	return e, ok
}
