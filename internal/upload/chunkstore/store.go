// Package chunkstore persists upload chunks on the local filesystem: one
// directory per video, one file per chunk index.
package chunkstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type Store struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Store {
	return &Store{
		log: log.With().Str("component", "chunkstore").Logger(),
	}
}

// ChunkFileName returns the file name for a chunk index.
func ChunkFileName(index int) string {
	return fmt.Sprintf("%d.chunk", index)
}

// StoreChunk writes a chunk under dir, creating the directory if needed.
// A chunk already present at the same index is overwritten (last write
// wins). Writes to distinct indices are safe concurrently.
func (s *Store) StoreChunk(dir string, index int, chunk []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chunk directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ChunkFileName(index))
	if err := os.WriteFile(path, chunk, 0o644); err != nil {
		return fmt.Errorf("write chunk %s: %w", path, err)
	}
	return nil
}

// AllChunksPresent reports whether a chunk file exists for every index in
// [0, total). A missing directory means no chunks, not an error.
func (s *Store) AllChunksPresent(dir string, total int) bool {
	if _, err := os.Stat(dir); err != nil {
		return false
	}

	for i := 0; i < total; i++ {
		if _, err := os.Stat(filepath.Join(dir, ChunkFileName(i))); err != nil {
			return false
		}
	}
	return true
}

// Relocate moves every regular file from src to dst, creating dst if
// absent. Relocation is best-effort: a file that fails to move is logged
// and skipped, non-regular entries are logged and skipped, and the batch
// always runs to the end.
func (s *Store) Relocate(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create destination %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read source %s: %w", src, err)
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())

		if !entry.Type().IsRegular() {
			s.log.Warn().Str("path", from).Msg("skipping non-regular entry")
			continue
		}

		to := filepath.Join(dst, entry.Name())
		if err := os.Rename(from, to); err != nil {
			s.log.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to move chunk file")
			continue
		}
		s.log.Debug().Str("from", from).Str("to", to).Msg("chunk file moved")
	}

	return nil
}
