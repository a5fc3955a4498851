// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/metrics"
	"github.com/alisoncf/guara/internal/validation"
)

// ExcludedDir holds files whose catalog link was removed.
const ExcludedDir = "excluidos"

var (
	ErrInvalidObjectID     = errors.New("media: invalid object id")
	ErrInvalidFileName     = errors.New("media: invalid file name")
	ErrExtensionNotAllowed = errors.New("media: file extension not allowed")
	ErrFileTooLarge        = errors.New("media: file too large")
)

// safeSegment reports whether s can be used as one path element. Hidden
// names are refused as well.
func safeSegment(s string) bool {
	return validation.IsSafeSegment(s) && !strings.HasPrefix(s, ".")
}

// Upload is one file received from a client.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadsFromMultipart adapts the parts of a parsed multipart form.
func UploadsFromMultipart(headers []*multipart.FileHeader) []Upload {
	out := make([]Upload, 0, len(headers))
	for _, h := range headers {
		out = append(out, Upload{
			Name: h.Filename,
			Size: h.Size,
			Open: func() (io.ReadCloser, error) { return h.Open() },
		})
	}
	return out
}

// Store keeps uploads on the local filesystem.
type Store struct {
	root          string
	defaultFolder string
	maxBytes      int64
	allowed       map[string]struct{}
}

// NewStore returns a Store rooted at cfg.UploadFolder. The folder is
// created when missing.
func NewStore(cfg config.MediaConfig) (*Store, error) {
	if cfg.UploadFolder == "" {
		return nil, errors.New("media: upload folder is required")
	}
	if err := os.MkdirAll(cfg.UploadFolder, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload folder: %w", err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	folder := cfg.DefaultFolder
	if folder == "" {
		folder = "geral"
	}
	return &Store{root: cfg.UploadFolder, defaultFolder: folder, maxBytes: cfg.MaxUploadBytes, allowed: allowed}, nil
}

// Root returns the upload folder.
func (s *Store) Root() string { return s.root }

// DefaultFolder is used for uploads without an object id.
func (s *Store) DefaultFolder() string { return s.defaultFolder }

// Dir returns the folder of objectID.
func (s *Store) Dir(objectID string) (string, error) {
	if !safeSegment(objectID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectID, objectID)
	}
	return filepath.Join(s.root, objectID), nil
}

// AllowedExtension reports whether name ends in an allowed extension.
func (s *Store) AllowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// Save writes files under objectID (the default folder when empty) with
// fresh names and returns those names in input order. Every file is checked
// before any is written, and a failed write removes the files already
// written.
func (s *Store) Save(objectID string, files []Upload) ([]string, error) {
	if objectID == "" {
		objectID = s.defaultFolder
	}
	dir, err := s.Dir(objectID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !s.AllowedExtension(f.Name) {
			return nil, fmt.Errorf("%w: %q", ErrExtensionNotAllowed, f.Name)
		}
		if s.maxBytes > 0 && f.Size > s.maxBytes {
			return nil, fmt.Errorf("%w: %q", ErrFileTooLarge, f.Name)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create object folder: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		name := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(filepath.Ext(f.Name))
		n, err := writeFile(filepath.Join(dir, name), f)
		if err != nil {
			_ = s.Discard(objectID, names)
			return nil, err
		}
		metrics.RecordMediaStored(n)
		names = append(names, name)
	}
	return names, nil
}

func writeFile(path string, f Upload) (int64, error) {
	src, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("media: open upload %q: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("media: create %s: %w", path, err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("media: write %s: %w", path, err)
	}
	return n, nil
}

// Discard deletes files written by Save, for uploads whose metadata could
// not be recorded. Names already gone are skipped.
func (s *Store) Discard(objectID string, names []string) error {
	if objectID == "" {
		objectID = s.defaultFolder
	}
	dir, err := s.Dir(objectID)
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if !safeSegment(name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFileName, name))
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("media: discard %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// List returns the regular files of objectID, sorted by name. A missing
// folder lists as empty.
func (s *Store) List(objectID string) ([]string, error) {
	dir, err := s.Dir(objectID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("media: list %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// MoveResult describes a MoveToExcluded call.
type MoveResult struct {
	Path    string
	Already bool
}

// MoveToExcluded moves name into the object's excluidos folder. A file
// already there, or missing from both places, reports Already.
func (s *Store) MoveToExcluded(objectID, name string) (MoveResult, error) {
	dir, err := s.Dir(objectID)
	if err != nil {
		return MoveResult{}, err
	}
	if !safeSegment(name) {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	src := filepath.Join(dir, name)
	dst := filepath.Join(dir, ExcludedDir, name)

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return MoveResult{Path: dst, Already: true}, nil
	} else if err != nil {
		return MoveResult{}, fmt.Errorf("media: stat %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return MoveResult{}, fmt.Errorf("media: create %s: %w", ExcludedDir, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return MoveResult{}, fmt.Errorf("media: move %s: %w", name, err)
	}
	return MoveResult{Path: dst}, nil
}
