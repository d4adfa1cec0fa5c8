// Package transcode implements the incremental transcoding engine behind the
// text decode and encode transforms.
//
// A DecoderStream turns a stream of raw bytes in some charset into a stream
// of UTF-8 Text; an EncoderStream does the reverse. Both pull lazily from
// their source and fill a bounded output buffer that is reused between
// reads, so a returned chunk is valid only until the next Read.
//
//	dec := transcode.UTF8Decoder(transcode.WithBufferSize(4096))
//	text := stream.PipeThrough[[]byte, transcode.Text](src, dec)
package transcode
