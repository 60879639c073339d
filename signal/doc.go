// Package signal defines how the harness reaches the raw wires of a circuit
// under test.
//
// A Signal is a fixed-width bit vector that can be read and written either as
// an integer or as a bit string. Bits may be unknown ('x') or high impedance
// ('z'); integer reads of such values fail with ErrUnresolved instead of
// silently reading zero.
//
// Simulator adapters implement Signal. The package ships Board, an in-memory
// backend whose writes become visible at the next clock edge, and Slice, a
// bit-range view into a wider signal.
package signal
