// Package stream provides the pull-based chunk pipeline that textstream is
// built on.
//
// A Readable produces chunks on demand, a Writable consumes them and a
// Transform sits between the two, converting a Readable[T] into a
// Readable[U] lazily. No work happens until the consumer pulls. Each stage
// pulls from the previous stage only when it needs more input, which gives
// natural backpressure without explicit flow control.
//
// Chunks are views into the producer's reusable buffer. A chunk is valid only
// until the next Read on the Readable that returned it; consumers that keep
// data longer must copy it (see Collect and CollectChunks).
//
// # Operators
//
//   - PipeThrough: attach a Transform to a source
//   - PipeTo: drive a source into a sink and release both
//   - Map: transform each chunk
//   - Tap: side-effect without altering the chunk (logging, metrics)
//   - Concat: join sources sequentially
//   - Rechunk: re-slice a byte stream into fixed-size chunks
//   - Collect, CollectChunks: drain a byte stream into owned memory
//
// # Usage
//
//	src, _ := bytestream.Open("input.txt", 1024)
//	text := stream.PipeThrough(src, transcode.UTF8Decoder())
//	out := stream.PipeThrough(text, transcode.UTF16LEEncoder())
//	err := stream.PipeTo(ctx, out, bytestream.NewWriter(os.Stdout, 4096))
package stream
