// Package charset provides the codec primitive behind the text transforms:
// named character sets, lookup by IANA or WHATWG name, and an incremental
// codec Session that converts between a charset and UTF-8 one buffer at a
// time.
//
// A Session never splits a character across two output buffers and holds
// incomplete trailing input itself, so callers may cut the input anywhere.
// Malformed input and unmappable characters are reported as CONVERSION_ERROR
// AppErrors under the Strict policy and replaced under the Replace policy.
//
// The conversions themselves are golang.org/x/text transformers; this
// package adds strictness where x/text substitutes silently and adapts the
// transform.Transformer contract to the underflow/overflow contract used by
// the transcoding engine.
package charset
