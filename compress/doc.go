// Package compress provides compression and decompression codecs used to
// shrink a decoded ChainPack Blob payload's in-memory footprint.
//
// ChainPack never compresses anything on the wire: a Blob's bytes are
// exactly the length-prefixed bytes that follow its tag byte. This
// package exists for callers who hold many decoded Values in memory at
// once (a cache, a buffered pipeline) and want to shrink the Blob
// payloads among them without changing what value.Value.AsBlob returns.
// See value.CompactBlob.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Supported Algorithms
//
// **NoOp** (format.CompressionNone) — returns input unchanged; useful as
// a baseline or when a Blob is already well-compressed.
//
// **Zstandard** (format.CompressionZstd) — best compression ratio,
// moderate speed; good for long-lived cached blobs.
//
// **S2** (format.CompressionS2) — a Snappy-family codec balancing speed
// and ratio; good default for blobs that get decompressed often.
//
// **LZ4** (format.CompressionLZ4) — fastest decompression, moderate
// ratio; good when a Blob is read far more often than it's compacted.
//
// # Thread Safety
//
// All codec implementations are safe to share across goroutines. Each
// holds no per-call mutable state beyond what Compress/Decompress
// allocate for their own output.
//
// # Custom Codecs
//
// Any type implementing Compressor and Decompressor satisfies Codec and
// can be passed to value.CompactBlob directly — there is no registry to
// update.
package compress
