package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inventory-manager/internal/model"
	"inventory-manager/pkg/validator"

	"github.com/rs/zerolog"
)

// ErrBackupSourceMissing is returned by Backup when there is no data file to copy.
var ErrBackupSourceMissing = errors.New("inventory data file does not exist")

// FileStoreOptions tunes the JSON file store.
type FileStoreOptions struct {
	// Strict makes Load return an error for a corrupt file instead of an empty collection.
	Strict bool

	// Mirror, when set, receives a copy of every backup.
	Mirror BackupMirror

	// Now supplies timestamps for records missing them. Defaults to time.Now.
	Now func() time.Time
}

// fileStore implements ProductStore on top of a single JSON document.
type fileStore struct {
	path      string
	opts      FileStoreOptions
	validator validator.Validator
	logger    zerolog.Logger
}

// NewFileStore creates a JSON file-backed product store at path.
func NewFileStore(path string, opts FileStoreOptions, logger zerolog.Logger) ProductStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &fileStore{
		path:      path,
		opts:      opts,
		validator: validator.NewDefaultValidator(),
		logger:    logger.With().Str("component", "file-store").Str("file", path).Logger(),
	}
}

// Path returns the data file location.
func (s *fileStore) Path() string {
	return s.path
}

// Exists reports whether the data file is present.
func (s *fileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads every stored product in file order.
func (s *fileStore) Load(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug().Msg("inventory file not found, starting empty")
		return []model.Product{}, nil
	}
	if err != nil {
		return s.loadFailed(fmt.Errorf("failed to read inventory file %s: %w", s.path, err))
	}

	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		s.logger.Debug().Msg("inventory file is empty")
		return []model.Product{}, nil
	}

	products, err := s.decode(content)
	if err != nil {
		return s.loadFailed(fmt.Errorf("failed to parse inventory file %s: %w", s.path, err))
	}

	s.logger.Info().Int("products_loaded", len(products)).Msg("inventory file loaded")

	return products, nil
}

// loadFailed applies the corruption policy: empty collection unless strict.
func (s *fileStore) loadFailed(err error) ([]model.Product, error) {
	if s.opts.Strict {
		s.logger.Error().Err(err).Msg("inventory file is unreadable")
		return nil, err
	}
	s.logger.Warn().Err(err).Msg("inventory file is unreadable, starting with an empty inventory")
	return []model.Product{}, nil
}

// decode parses the document. Duplicate SKUs keep the position of their first
// occurrence and the values of their last.
func (s *fileStore) decode(content []byte) ([]model.Product, error) {
	var doc inventoryFile
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	now := s.opts.Now()
	products := make([]model.Product, 0, len(doc.Products))
	index := make(map[string]int, len(doc.Products))

	for i, record := range doc.Products {
		p, err := record.toProduct(now)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := s.validator.Validate(p); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, p.SKU, err)
		}

		if pos, seen := index[p.SKU]; seen {
			s.logger.Warn().Str("sku", p.SKU).Msg("duplicate SKU in inventory file, keeping last entry")
			products[pos] = p
			continue
		}
		index[p.SKU] = len(products)
		products = append(products, p)
	}

	return products, nil
}

// Save replaces the stored collection with products.
func (s *fileStore) Save(ctx context.Context, products []model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := inventoryFile{Products: make([]productRecord, 0, len(products))}
	for _, p := range products {
		doc.Products = append(doc.Products, newProductRecord(p))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode inventory data")
		return fmt.Errorf("failed to encode inventory data: %w", err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		s.logger.Error().Err(err).Msg("failed to save inventory data")
		return fmt.Errorf("failed to save inventory data: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("inventory saved")

	return nil
}

// Backup copies the data file to <path>.backup, overwriting any prior backup,
// and forwards the copy to the configured mirror. Mirror failures are logged
// and do not fail the backup.
func (s *fileStore) Backup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Msg("cannot back up, inventory file does not exist")
		return ErrBackupSourceMissing
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read inventory file for backup")
		return fmt.Errorf("failed to read inventory file: %w", err)
	}

	backupPath := s.path + BackupSuffix
	if err := writeFileAtomic(backupPath, data); err != nil {
		s.logger.Error().Err(err).Str("backup", backupPath).Msg("failed to write backup")
		return fmt.Errorf("failed to write backup %s: %w", backupPath, err)
	}

	s.logger.Info().Str("backup", backupPath).Int("bytes", len(data)).Msg("backup created")

	if s.opts.Mirror != nil {
		name := filepath.Base(backupPath)
		if err := s.opts.Mirror.Upload(ctx, name, data); err != nil {
			s.logger.Warn().Err(err).Str("object", name).Msg("failed to mirror backup, local copy kept")
		}
	}

	return nil
}

// writeFileAtomic writes data to a temporary sibling and renames it over path,
// so readers only ever observe a complete file.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
