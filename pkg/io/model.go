package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/errors"
)

// Encoding selects the serialization of an exported model.
type Encoding string

const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

// ParseEncoding validates an encoding name. "yml" is accepted for YAML.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid model encoding: %s (must be 'json' or 'yaml')", s)
}

// EncodingForPath guesses the encoding from a file extension, defaulting to JSON.
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// WriteModel serializes m to w.
func WriteModel(w io.Writer, m *agenda.Model, enc Encoding) error {
	m = normalized(m)
	switch enc {
	case YAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(m); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return e.Close()
	default:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(m); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// ExportModel writes m to the file at path in enc.
func ExportModel(m *agenda.Model, path string, enc Encoding) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutputFailed, err, "create %s", path)
	}
	if err := WriteModel(f, m, enc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadModel deserializes a model from r.
func ReadModel(r io.Reader, enc Encoding) (*agenda.Model, error) {
	var m agenda.Model
	switch enc {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInputUnreadable, err, "decode yaml model")
		}
	default:
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInputUnreadable, err, "decode json model")
		}
	}
	for i := range m.Components {
		m.Components[i].Time = agenda.ParseLane(string(m.Components[i].Time))
	}
	return normalized(&m), nil
}

// ImportModel reads a model from path, choosing the encoding from its extension.
func ImportModel(path string) (*agenda.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputUnreadable, err, "open %s", path)
	}
	defer f.Close()
	return ReadModel(f, EncodingForPath(path))
}

// normalized returns m with nil slices replaced by empty ones so exports
// always carry both arrays.
func normalized(m *agenda.Model) *agenda.Model {
	if m == nil {
		m = &agenda.Model{}
	}
	out := *m
	if out.Components == nil {
		out.Components = []agenda.Component{}
	}
	if out.Relations == nil {
		out.Relations = []agenda.Relation{}
	}
	return &out
}
