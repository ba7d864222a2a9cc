package catalog

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

const compressionLevel = 3

var encoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			panic("failed to create zstd encoder: " + err.Error())
		}
		return encoder
	},
}

// a nil-source Decoder is safe for concurrent DecodeAll calls
var decoder, _ = zstd.NewReader(nil)

func compress(data []byte) []byte {
	encoder := encoderPool.Get().(*zstd.Encoder)
	defer func() {
		encoder.Reset(nil)
		encoderPool.Put(encoder)
	}()

	return encoder.EncodeAll(data, make([]byte, 0, len(data)/4))
}

func decompress(data []byte) ([]byte, error) {
	return decoder.DecodeAll(data, nil)
}
