// Package vm implements the Z-machine virtual machine.
//
// This package contains:
//   - The story memory image with its dynamic/static write discipline
//   - The call stack with framed locals and the evaluation stack
//   - The Z-character text codec and dictionary tokeniser
//   - The versioned object tree
//   - The instruction fetch/decode/dispatch loop and opcode tables (V1-V8)
//   - Snapshots for save/restore
package vm
