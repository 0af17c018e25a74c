// Package requests decodes seed tree definitions into node requests and
// builds filesystems from them.
package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/util"
)

// Format is the encoding of a seed definition
type Format string

const (
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

var validate = validator.New()

// Tree is a decoded seed definition with defaults applied.
type Tree struct {
	// RootName is nil when the definition keeps the configured root name
	RootName *string
	Nodes    []*termfs.NodeRequest
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".json":
		return JSONFormat, nil
	}
	return "", fmt.Errorf("unknown seed file extension: %s", path)
}

// UnmarshalTree decodes and validates a seed definition.
func UnmarshalTree(data []byte, format Format) (*Tree, error) {
	var dto TreeDTO
	switch format {
	case JSONFormat:
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("failed to unmarshal seed tree: %w", err)
		}
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("failed to unmarshal seed tree: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}
	if err := validate.Struct(&dto); err != nil {
		return nil, formatValidationError(err)
	}

	tree := &Tree{RootName: dto.RootName, Nodes: make([]*termfs.NodeRequest, len(dto.Nodes))}
	for i, n := range dto.Nodes {
		tree.Nodes[i] = convertNodeDTO(n)
	}
	return tree, nil
}

// LoadTree reads a seed definition from a .yaml, .yml or .json file.
func LoadTree(path string) (*Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data, format)
}

// Build creates a filesystem from the tree. Requests are applied in order, so
// later markers and permission overrides win over earlier ones.
func (t *Tree) Build(cfg *config.Config) (*filesystem.FileSystem, error) {
	logger := util.GetLogger("Requests.Build")

	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if t.RootName != nil {
		c := *cfg
		c.RootName = *t.RootName
		cfg = &c
	}
	fs := filesystem.NewFS(cfg)
	for _, req := range t.Nodes {
		if _, err := fs.AddNode(req); err != nil {
			return nil, fmt.Errorf("seed %s: %w", req.Path, err)
		}
	}
	logger.Debug().Int("nodes", len(t.Nodes)).Uint64("next_id", fs.NextID()).Msg("Built seed tree")
	return fs, nil
}

func convertNodeDTO(dto NodeRequestDTO) *termfs.NodeRequest {
	defaultType := termfs.DirNodeType
	if dto.Contents != nil {
		defaultType = termfs.FileNodeType
	}
	return &termfs.NodeRequest{
		Path:     dto.Path,
		Type:     valueOrDefault(dto.Type, defaultType),
		Kind:     valueOrDefault(dto.Kind, termfs.SystemKind),
		Contents: valueOrDefault(dto.Contents, ""),
		Perms:    dto.Perms,
		Home:     valueOrDefault(dto.Home, false),
		Current:  valueOrDefault(dto.Current, false),
	}
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return fmt.Errorf("validation error: %w", err)
}
