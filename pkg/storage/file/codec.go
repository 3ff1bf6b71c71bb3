package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"briefing/pkg/storage"

	"gopkg.in/yaml.v3"
)

// Codec encodes the persisted record list to bytes and back.
type Codec interface {
	Marshal(records []storage.Record) ([]byte, error)
	Unmarshal(data []byte) ([]storage.Record, error)
	Name() string
}

// CodecFor picks a codec from the record path extension: .yaml and .yml use
// YAML, everything else JSON.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}

// JSONCodec stores the collection as an indented JSON array.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(records []storage.Record) ([]byte, error) {
	if records == nil {
		records = []storage.Record{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal records: %w", err)
	}

	return append(b, '\n'), nil
}

func (JSONCodec) Unmarshal(data []byte) ([]storage.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []storage.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("could not decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("could not decode json: trailing data after array")
	}

	return records, nil
}

// YAMLCodec stores the collection as a YAML sequence.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(records []storage.Record) ([]byte, error) {
	if records == nil {
		records = []storage.Record{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("could not marshal records: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("could not marshal records: %w", err)
	}

	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte) ([]storage.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var records []storage.Record
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("could not decode yaml: empty document")
		}

		return nil, fmt.Errorf("could not decode yaml: %w", err)
	}

	return records, nil
}
