package emul8

import (
	"sync/atomic"

	"emul8/chip8"
)

// KeyLayout maps the physical keys of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var KeyLayout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyLatch holds the key levels written by frontend event handlers, which
// usually run on a different goroutine than the emulation loop.
type KeyLatch struct {
	state [chip8.KeyCount]atomic.Bool
}

func (k *KeyLatch) Press(key uint8) {
	k.state[key&0x0F].Store(true)
}

func (k *KeyLatch) Release(key uint8) {
	k.state[key&0x0F].Store(false)
}

// ReleaseAll lifts every key, for example when the window loses focus.
func (k *KeyLatch) ReleaseAll() {
	for i := range k.state {
		k.state[i].Store(false)
	}
}

// Keys returns a snapshot of all key levels.
func (k *KeyLatch) Keys() [chip8.KeyCount]bool {
	var keys [chip8.KeyCount]bool
	for i := range k.state {
		keys[i] = k.state[i].Load()
	}
	return keys
}
