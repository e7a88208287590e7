// Package output encodes build size tables and sends them to their
// destination.
//
//   - Encoding (encode.go): [AssetSize] rows rendered by a named [Encoder].
//   - Registry (registry.go): format names mapped to encoders, so commands
//     validate --format against what is actually available.
//   - Writers (writer.go): the [Writer] interface with [StreamWriter] and
//     [FileWriter] implementations.
package output
