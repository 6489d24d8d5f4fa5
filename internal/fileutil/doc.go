// Package fileutil owns the filesystem primitives behind search, import and
// export: path validation, verified copies, atomically published output files
// and the backup-then-replace sequence used when archived media is restored
// over a library file.
package fileutil
