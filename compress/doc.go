// Package compress provides zstd and snappy transforms over byte streams.
//
// Decompress adapts its source to an io.Reader for the decoder; Compress
// feeds source chunks to the encoder and finishes the frame when the source
// ends. Both are lazy: nothing is read until the first Read.
package compress
