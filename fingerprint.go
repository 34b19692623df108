// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// Fingerprint derives a stable digest for one invocation: the wrapper's
// bound configuration, the operation name, the built command-line arguments,
// and a content hash of the directory whose files affect the outcome. Two
// invocations with identical fingerprints are treated as producing identical
// results.
//
// config and argv must already be in canonical (deterministic) order;
// ParseArgs and TerraformTest.configKey guarantee that.
func Fingerprint(config []string, op string, argv []string, dir string) string {
	h := sha256.New()
	for _, c := range config {
		writeField(h, c)
	}
	writeField(h, op)
	for _, a := range argv {
		writeField(h, a)
	}
	writeField(h, hashDir(dir))
	return hex.EncodeToString(h.Sum(nil))
}

// hashDir computes a recursive content hash over dir. Dot-prefixed entries
// (.terraform, .terragrunt-cache*, the result cache itself) are skipped so a
// cached result cannot invalidate its own fingerprint. A missing or empty
// directory hashes deterministically to the digest of no entries.
func hashDir(dir string) string {
	h := sha256.New()

	// WalkDir visits entries in lexical order, which keeps the digest
	// stable across runs.
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are treated as absent.
			log.Debugf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil //nolint:nilerr
		}
		if path == dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		writeField(h, filepath.ToSlash(rel))

		f, openErr := os.Open(path)
		if openErr != nil {
			log.Debugf("skipping %s: %v", path, openErr)
			return nil
		}
		defer f.Close()
		_, _ = io.Copy(h, f)
		return nil
	})
	if err != nil {
		log.Debugf("hashing %s: %v", dir, err)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes s followed by a NUL separator so adjacent fields cannot
// collide ("ab"+"c" vs "a"+"bc").
func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{0})
}
