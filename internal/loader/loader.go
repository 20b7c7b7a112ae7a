package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/idle-economy/internal/converter"
	"github.com/napolitain/idle-economy/internal/models"
)

// ErrNoSave is returned by LoadSave when the save file does not exist
var ErrNoSave = errors.New("no save file")

// LoadCatalog loads a catalog override from a YAML file. Top-level sections
// the file omits keep their built-in defaults. An empty path returns the
// default catalog.
func LoadCatalog(path string) (*models.Catalog, error) {
	catalog := models.DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// isBinary reports whether a save path uses the protobuf format
func isBinary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pb")
}

// LoadSave reads a save file. Files ending in .pb hold a binary protobuf
// Struct, anything else is JSON.
func LoadSave(path string) (*models.SaveData, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save %s: %w", path, err)
	}
	return ParseSave(data, isBinary(path))
}

// ParseSave decodes a save blob in either format
func ParseSave(data []byte, binary bool) (*models.SaveData, error) {
	if binary {
		st := &structpb.Struct{}
		if err := proto.Unmarshal(data, st); err != nil {
			return nil, fmt.Errorf("failed to parse binary save: %w", err)
		}
		return converter.ProtoToSave(st)
	}

	save := &models.SaveData{}
	if err := json.Unmarshal(data, save); err != nil {
		return nil, fmt.Errorf("failed to parse save: %w", err)
	}
	if save.Pool == nil {
		save.Pool = make(map[models.ResourceType]float64)
	}
	if save.Structures == nil {
		save.Structures = make(map[models.StructureType]models.StructureData)
	}
	return save, nil
}

// LoadSaveOrDefault reads a save file, falling back to the new-game save when
// the file is missing or unreadable. The returned error is non-nil only for a
// file that exists but could not be used, so callers can warn about it.
func LoadSaveOrDefault(path string, catalog *models.Catalog) (*models.SaveData, error) {
	save, err := LoadSave(path)
	if errors.Is(err, ErrNoSave) {
		return models.DefaultSave(catalog), nil
	}
	if err != nil {
		return models.DefaultSave(catalog), err
	}
	return save, nil
}

// EncodeSave serializes save data in the format selected by binary
func EncodeSave(save *models.SaveData, binary bool) ([]byte, error) {
	if !binary {
		data, err := json.Marshal(save)
		if err != nil {
			return nil, fmt.Errorf("failed to encode save: %w", err)
		}
		return data, nil
	}
	st, err := converter.SaveToProto(save)
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode binary save: %w", err)
	}
	return data, nil
}

// WriteSave writes save data to path, replacing any previous save. The file
// is written next to the target and renamed over it, so a crash never leaves
// a truncated save behind.
func WriteSave(path string, save *models.SaveData) error {
	data, err := EncodeSave(save, isBinary(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace save %s: %w", path, err)
	}
	return nil
}
