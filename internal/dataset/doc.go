// Package dataset provides a blocked binary sequence store. Records are appended to a single file, grouped into
// fixed-size blocks and can later be read back by position without loading the whole file.
//
// The on-disk structure looks like this:
//
//   - The file starts with a reserved header space of 4096 bytes. It holds the preheader (magic bytes, version and
//     header size), the checksum of the header and the header itself. The header is written last when the writer is
//     closed. A file which was never closed does not carry valid magic bytes.
//   - After the header space the blocks follow one after the other. Every block is made up of a checksum and the
//     compressed container holding the serialized records of the block. Every block except the last one holds exactly
//     block length records.
//   - After the last block the index follows. It is made up of a checksum and the compressed list of block locations.
//     The header points at the index.
//
// Writers and readers are NOT safe for concurrent use. Only a single writer or appender may hold a file at any time.
package dataset
