// Package encoding contains the low level building blocks of the dataset file format: the checksum codec, the
// preheader, header and index codecs and the registries for record serializers and block compressors.
package encoding

import "encoding/binary"

// Endian is the endianness the dataset file format uses for serializing/deserializing integers to file.
var Endian = binary.LittleEndian
