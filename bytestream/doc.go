// Package bytestream adapts io readers and writers to the stream package.
//
// A Reader reads into one fixed buffer and yields views of it, so a chunk
// is only valid until the next Read. A Writer stages chunks in a pooled
// buffer and writes whole buffers to the destination.
package bytestream
