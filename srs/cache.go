// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package srs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/kzg"
	"github.com/schollz/progressbar/v3"

	"github.com/zkbridge/zkbridge/logger"
)

// Cache persists canonical SRS transcripts on disk, one file per
// (curve, size), next to a sha256 checksum. A missing or corrupted entry is
// regenerated from the entropy source.
type Cache struct {
	Dir string
}

// NewCache returns a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create srs cache dir: %w", err)
	}
	return &Cache{Dir: dir}, nil
}

func (c *Cache) path(curve ecc.ID, size uint64) string {
	return filepath.Join(c.Dir, fmt.Sprintf("kzg_srs_canonical_%d_%s", size, curve.String()))
}

// Get returns the canonical SRS for (curve, size), loading it from disk when
// a checksum-valid entry exists and generating (then persisting) it
// otherwise.
func (c *Cache) Get(curve ecc.ID, size uint64, entropy io.Reader) (kzg.SRS, error) {
	log := logger.Logger().With().Str("curve", curve.String()).Uint64("size", size).Logger()
	path := c.path(curve, size)

	if srs, err := c.load(curve, path); err == nil {
		log.Debug().Str("path", path).Msg("srs cache hit")
		return srs, nil
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("srs cache entry unusable, regenerating")
	}

	srs, err := Generate(curve, size, entropy)
	if err != nil {
		return nil, err
	}
	if err := c.store(srs, path, size); err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("srs generated and cached")
	return srs, nil
}

func (c *Cache) load(curve ecc.ID, path string) (kzg.SRS, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	wantSum, err := os.ReadFile(path + ".sha256")
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	if hex.EncodeToString(sum[:]) != string(wantSum) {
		return nil, fmt.Errorf("srs checksum mismatch for %s", path)
	}

	srs, err := empty(curve)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := srs.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read srs from %s: %w", path, err)
	}
	return srs, nil
}

func (c *Cache) store(srs kzg.SRS, path string, size uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srs cache entry: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	bar := progressbar.DefaultBytes(-1, fmt.Sprintf("caching srs (size %d)", size))
	defer bar.Close()

	if _, err := srs.WriteTo(io.MultiWriter(f, h, bar)); err != nil {
		return fmt.Errorf("write srs cache entry: %w", err)
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if err := os.WriteFile(path+".sha256", []byte(sum), 0o600); err != nil {
		return fmt.Errorf("write srs checksum: %w", err)
	}
	return nil
}
