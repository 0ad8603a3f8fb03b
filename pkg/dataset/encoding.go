package dataset

import intencoding "github.com/backbone81/dataset/internal/encoding"

// Compression describes the codec applied to every block and to the index.
type Compression = intencoding.Compression

const (
	CompressionNone   = intencoding.CompressionNone
	CompressionZlib   = intencoding.CompressionZlib
	CompressionLZ4    = intencoding.CompressionLZ4
	CompressionSnappy = intencoding.CompressionSnappy
	CompressionZstd   = intencoding.CompressionZstd
	CompressionBrotli = intencoding.CompressionBrotli
)

// ParseCompression returns the compression with the given name.
var ParseCompression = intencoding.ParseCompression

// Serializer describes the way every record is serialized.
type Serializer = intencoding.Serializer

const (
	SerializerMsgpack = intencoding.SerializerMsgpack
	SerializerJSON    = intencoding.SerializerJSON
)

// ParseSerializer returns the serializer with the given name.
var ParseSerializer = intencoding.ParseSerializer

// NormalizeJSONNumbers turns json.Number values into int64 or float64, the way the json serializer decodes untyped
// records.
var NormalizeJSONNumbers = intencoding.NormalizeJSONNumbers

// Header describes the metadata of a dataset file.
type Header = intencoding.Header

// IndexEntry locates a single block in the dataset file.
type IndexEntry = intencoding.IndexEntry

// Unit identifies the part of a dataset file which failed validation.
type Unit = intencoding.Unit

const (
	UnitHeader = intencoding.UnitHeader
	UnitIndex  = intencoding.UnitIndex
)

// BlockUnit returns the unit describing the n-th block of the dataset.
var BlockUnit = intencoding.BlockUnit

// CorruptionError is returned whenever the content of a unit does not match its checksum or cannot be decoded.
type CorruptionError = intencoding.CorruptionError

var (
	ErrNotADatasetFile    = intencoding.ErrNotADatasetFile
	ErrUnsupportedVersion = intencoding.ErrUnsupportedVersion
	ErrUnsupportedFormat  = intencoding.ErrUnsupportedFormat
	ErrConfiguration      = intencoding.ErrConfiguration
	ErrCorruption         = intencoding.ErrCorruption
	ErrHeaderOverflow     = intencoding.ErrHeaderOverflow
)
