package planner

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Gateway persists the planner documents as whole JSON files under one
// directory. Every save rewrites the file through a temp file and rename
// so readers never observe a partial write.
type Gateway struct {
	dir string
}

// NewGateway returns a gateway rooted at dir, creating it if needed.
func NewGateway(dir string) (*Gateway, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Gateway{dir: dir}, nil
}

// Dir returns the storage directory.
func (g *Gateway) Dir() string {
	return g.dir
}

func (g *Gateway) path(name string) string {
	return filepath.Join(g.dir, name)
}

// Load reads the named document into v. A missing file or malformed JSON
// leaves v untouched and is not an error: the store starts fresh.
func (g *Gateway) Load(name string, v interface{}) error {
	data, err := os.ReadFile(g.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Malformed %s, starting with empty document: %v", name, err)
	}
	return nil
}

// Save writes v to the named document, replacing it atomically.
func (g *Gateway) Save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := g.path(name + TmpSuffix)
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		return err
	}

	return os.Rename(tmpFile, g.path(name))
}
