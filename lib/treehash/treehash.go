// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package treehash computes deterministic digests of directory trees.
// The hook records the vendor destination's digest before the build
// and verifies after cleanup that the tree was restored to exactly its
// pre-build state — the core contract of build-time-only vendoring.
package treehash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of a directory tree.
type Digest [32]byte

// treeDomainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation keeps tree digests distinct from any other BLAKE3 use.
// The bytes are the ASCII encoding of the domain name, zero-padded,
// so the key is inspectable in hex dumps.
var treeDomainKey = [32]byte{
	'v', 'e', 'n', 'd', 'o', 'r', 'h', 'o', 'o', 'k', '.',
	't', 'r', 'e', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DirectoryDigest computes the digest of every regular file under dir:
// for each file in lexical walk order, the slash-separated relative
// path, the file mode, the content length, and the content are fed to
// a keyed hasher. A missing or empty directory produces the digest of
// the empty input, so "destination does not exist yet" and
// "destination exists and is empty" before and after a build compare
// stable.
func DirectoryDigest(dir string) (Digest, error) {
	hasher, err := blake3.NewKeyed(treeDomainKey[:])
	if err != nil {
		panic("treehash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// A missing root is the defined empty case.
			if path == dir && os.IsNotExist(walkErr) {
				return filepath.SkipAll
			}
			return walkErr
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		hasher.WriteString(filepath.ToSlash(relative))
		var header [12]byte
		binary.BigEndian.PutUint32(header[:4], uint32(info.Mode().Perm()))
		binary.BigEndian.PutUint64(header[4:], uint64(info.Size()))
		hasher.Write(header[:])

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := io.Copy(hasher, file); err != nil {
			return fmt.Errorf("hashing %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return Digest{}, fmt.Errorf("digesting %s: %w", dir, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String returns the hex encoding of the digest, the canonical format
// for logs.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
