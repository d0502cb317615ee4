// This file stages, saves, and loads exchange files. Writes are atomic:
// temp file, fsync, rename.
package exchange

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// FileName is the name of a staged export and of the workspace map file.
const FileName = "shop_map.json"

// MediaType is the content type handed to share mechanisms.
const MediaType = "application/json"

// Read parses exchange data from r.
func Read(r io.Reader, opts ...Option) (types.Slots, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Slots{}, fmt.Errorf("reading shop map: %w", err)
	}
	return Deserialize(data, opts...)
}

// Write encodes slots to w followed by a newline.
func Write(w io.Writer, slots types.Slots, indent bool) error {
	data, err := encode(slots, indent)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing shop map: %w", err)
	}
	return nil
}

// Load reads and parses the exchange file at path.
func Load(path string, opts ...Option) (types.Slots, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Slots{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, opts...)
}

// Save atomically writes slots as indented JSON to path.
func Save(path string, slots types.Slots) error {
	data, err := SerializeIndent(slots)
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// SaveCompact atomically writes slots as compact JSON to path.
func SaveCompact(path string, slots types.Slots) error {
	data, err := Serialize(slots)
	if err != nil {
		return err
	}
	return writeAtomic(path, append(data, '\n'))
}

// Stage writes slots to dir/shop_map.json for hand-off to a share
// mechanism and returns the file path. dir is created if needed.
func Stage(dir string, slots types.Slots) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating stage dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := Save(path, slots); err != nil {
		return "", err
	}
	return path, nil
}

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shop_map-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
