//go:build amd64 && !noasm

package pin

// Relax executes PAUSE, telling the core it is in a spin-wait loop.
func Relax()
