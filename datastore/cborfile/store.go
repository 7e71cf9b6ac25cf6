/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package cborfile stores entities as CBOR files in a local directory, one
// file per key. It backs the CLI and single-node deployments without
// DynamoDB.
package cborfile

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/suparena/routestore/datastore"
	"github.com/suparena/routestore/errors"
)

const fileExt = ".cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("cborfile: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cborfile: CBOR decoder initialization failed: " + err.Error())
	}
}

// Store is a datastore.DataStore[T] over a directory.
type Store[T any] struct {
	dir       string
	key       func(T) string
	partition func(T) string
	logger    zerolog.Logger
	mu        sync.RWMutex
}

var _ datastore.DataStore[struct{}] = (*Store[struct{}])(nil)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New opens a store in dir, creating the directory if needed. key names the
// file of an entity; partition groups entities for List.
func New[T any](dir string, key, partition func(T) string, opts ...Option) (*Store[T], error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store[T]{
		dir:       dir,
		key:       key,
		partition: partition,
		logger:    o.logger.With().Str("dir", dir).Logger(),
	}, nil
}

func (s *Store[T]) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt)
}

func (s *Store[T]) read(path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entity := new(T)
	if err := decMode.Unmarshal(data, entity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return entity, nil
}

// GetOne loads the entity stored under key.
func (s *Store[T]) GetOne(ctx context.Context, key string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, err := s.read(s.path(key))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("%T", *new(T)), key)
	}
	return entity, err
}

// Put writes entity atomically through a temporary file.
func (s *Store[T]) Put(ctx context.Context, entity T) error {
	key := s.key(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}
	data, err := encMode.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode entity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if next := datastore.VersionOf(entity); next > 0 {
		existing, err := s.read(path)
		switch {
		case err == nil:
			if stored := datastore.VersionOf(*existing); stored > next {
				return errors.NewConditionFailedError("put", fmt.Sprintf("stored version %d newer than %d", stored, next))
			}
		case !stderrors.Is(err, fs.ErrNotExist):
			return err
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("entity stored")
	return nil
}

// List decodes every stored entity of partition.
func (s *Store[T]) List(ctx context.Context, partition string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory: %w", err)
	}
	var items []T
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entity, err := s.read(filepath.Join(s.dir, de.Name()))
		if err != nil {
			return nil, err
		}
		if s.partition == nil || s.partition(*entity) == partition {
			items = append(items, *entity)
		}
	}
	return items, nil
}

// Delete removes the entity stored under key.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewNotFoundError(fmt.Sprintf("%T", *new(T)), key)
	}
	return err
}
