// Package dataset provides a blocked binary sequence store.
//
//   - A dataset is a single file holding an ordered sequence of records. Records are serialized individually and
//     grouped into blocks of a fixed number of records. Every block is compressed and protected by its own checksum.
//   - The index locating every block and the header describing the dataset are written when a writer is closed. A
//     dataset is only guaranteed to be readable right after a successful close.
//   - Readers provide random access by position, multi-position access, slicing and sequential iteration. Only a
//     single block is decoded at any time.
//   - Appenders continue an existing dataset in a new session. The first block flushed by an appender overwrites the
//     index of the previous session, so a crash after that point leaves the file unreadable until the session is
//     closed.
//   - Sort orders a dataset by a key into a new dataset while holding only a bounded number of blocks in memory.
package dataset
