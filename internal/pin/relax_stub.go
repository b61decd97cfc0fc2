//go:build !amd64 || noasm

package pin

// Relax is a no-op where no spin-wait hint is available.
func Relax() {}
