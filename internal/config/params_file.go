package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rook-computer/ringpfp/internal/state"
)

// LoadParamsFile reads a partial parameter set. The format follows the
// extension: .toml, .yaml/.yml or .json.
func LoadParamsFile(path string) (state.ParamsPatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return state.ParamsPatch{}, err
	}
	return ParseParams(filepath.Ext(path), data)
}

// ParseParams decodes data in the format named by ext. Unknown keys are errors
// so typos do not pass silently.
func ParseParams(ext string, data []byte) (state.ParamsPatch, error) {
	var patch state.ParamsPatch
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&patch)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&patch)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&patch)
	default:
		return patch, fmt.Errorf("params file: unsupported extension %q", ext)
	}
	if err != nil {
		return state.ParamsPatch{}, fmt.Errorf("params file: %w", err)
	}
	return patch, nil
}
