package loaders

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"gopkg.in/yaml.v3"
)

// SceneFormat is the encoding of a scene description file.
type SceneFormat string

const (
	SceneFormatTOML SceneFormat = "toml"
	SceneFormatYAML SceneFormat = "yaml"
)

// SceneFormatFromPath picks the encoding from the file extension.
func SceneFormatFromPath(path string) (SceneFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SceneFormatTOML, nil
	case ".yaml", ".yml":
		return SceneFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported scene file extension %q", filepath.Ext(path))
	}
}

// SceneLoader reads a scene description. Unknown keys are rejected so a
// typo in a flag name does not silently drop a cost.
type SceneLoader struct{}

func (sl *SceneLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeScene {
		return nil, fmt.Errorf("scene loader cannot load %s resources", assetType)
	}
	format, err := SceneFormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	desc, err := DecodeScene(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	return &metadata.Resource{
		Name:     info.Name(),
		FullPath: path,
		Type:     metadata.ResourceTypeScene,
		DataSize: uint64(info.Size()),
		Data:     desc,
	}, nil
}

func (sl *SceneLoader) Unload(*metadata.Resource) error {
	return nil
}

func DecodeScene(r io.Reader, format SceneFormat) (*scene.Description, error) {
	desc := &scene.Description{}
	switch format {
	case SceneFormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(desc); err != nil {
			return nil, err
		}
	case SceneFormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(desc); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported scene format %q", format)
	}
	return desc, nil
}

func EncodeScene(w io.Writer, desc *scene.Description, format SceneFormat) error {
	switch format {
	case SceneFormatTOML:
		return toml.NewEncoder(w).Encode(desc)
	case SceneFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(desc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported scene format %q", format)
	}
}
