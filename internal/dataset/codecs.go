package dataset

import (
	"github.com/backbone81/dataset/internal/encoding"
)

// codecs bundles the functions resolved from the compression and serializer of a dataset.
type codecs struct {
	marshal    encoding.Marshaler
	unmarshal  encoding.Unmarshaler
	compress   encoding.Compressor
	decompress encoding.Decompressor
}

func newCodecs(compression encoding.Compression, serializer encoding.Serializer) (codecs, error) {
	var result codecs
	var err error
	if result.compress, err = encoding.GetCompressor(compression); err != nil {
		return codecs{}, err
	}
	if result.decompress, err = encoding.GetDecompressor(compression); err != nil {
		return codecs{}, err
	}
	if result.marshal, err = encoding.GetMarshaler(serializer); err != nil {
		return codecs{}, err
	}
	if result.unmarshal, err = encoding.GetUnmarshaler(serializer); err != nil {
		return codecs{}, err
	}
	return result, nil
}
