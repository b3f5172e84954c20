// relax_stub.go — No-op Relax for targets without a spin-wait hint
//
// Covers RISC-V, WASM, the noasm tag, and anything else without a
// dedicated relax file.

//go:build (!amd64 && !arm64) || noasm

package idle

// Relax does nothing here; the caller keeps polling at full speed.
//
//go:nosplit
//go:inline
func Relax() {}
