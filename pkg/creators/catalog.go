package creators

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fitdesk/pkg/model"
)

//go:embed schemas/*.yaml templates/*.tpl
var embedded embed.FS

// Schemas exposes the bundled schema files.
func Schemas() fs.FS {
	sub, err := fs.Sub(embedded, "schemas")
	if err != nil {
		panic(fmt.Sprintf("creators: schemas fs: %v", err))
	}
	return sub
}

// Templates exposes the bundled document templates, one <id>.tpl per schema.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("creators: templates fs: %v", err))
	}
	return sub
}

// Catalog indexes validated schemas by id.
type Catalog struct {
	schemas map[string]model.Schema
}

// Default loads the bundled catalog.
func Default() (*Catalog, error) {
	return LoadFS(Schemas())
}

// LoadFS walks fsys and parses every JSON/YAML schema file. A nil fsys yields
// an empty catalog.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{schemas: make(map[string]model.Schema)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(name) {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("creators: read %s: %w", name, err)
		}
		schema, err := parseSchema(data, name)
		if err != nil {
			return err
		}
		schema.ID = strings.TrimSpace(schema.ID)
		if schema.ID == "" {
			schema.ID = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		if err := schema.Validate(); err != nil {
			return fmt.Errorf("creators: %s: %w", name, err)
		}
		if _, exists := catalog.schemas[schema.ID]; exists {
			return fmt.Errorf("creators: duplicate schema %q (file %s)", schema.ID, name)
		}
		catalog.schemas[schema.ID] = schema
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Get returns the schema registered under id.
func (c *Catalog) Get(id string) (model.Schema, bool) {
	if c == nil {
		return model.Schema{}, false
	}
	schema, ok := c.schemas[strings.TrimSpace(id)]
	return schema, ok
}

// List returns every schema sorted by id.
func (c *Catalog) List() []model.Schema {
	if c == nil {
		return nil
	}
	out := make([]model.Schema, 0, len(c.schemas))
	for _, schema := range c.schemas {
		out = append(out, schema)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of schemas.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.schemas)
}

func parseSchema(data []byte, source string) (model.Schema, error) {
	var schema model.Schema
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Schema{}, fmt.Errorf("creators: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &schema); err == nil {
		return schema, nil
	}
	schema = model.Schema{}
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return model.Schema{}, fmt.Errorf("creators: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return schema, nil
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
