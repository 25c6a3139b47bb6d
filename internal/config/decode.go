package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/servicelayer/internal/errors"
	"github.com/vango-dev/servicelayer/pkg/registry"
)

// Format is a registry document encoding.
type Format string

const (
	// FormatJSON is JSON, with comments and trailing commas tolerated.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown
// extensions are reported as ok == false.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Parse decodes a registry document. source is only used in error messages
// and may be empty.
func Parse(data []byte, format Format, source string) (*File, error) {
	f := &File{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(jsonc.ToJSON(data), f)
	case FormatYAML:
		err = yaml.Unmarshal(data, f)
	default:
		return nil, errors.New("E120").
			WithSource(source).
			WithDetailf("unsupported format %q", format).
			WithSuggestion("Use a .json, .jsonc, .yaml or .yml document")
	}
	if err != nil {
		return nil, errors.New("E120").
			WithSource(source).
			WithDetail(err.Error()).
			WithSuggestion("Check that the document is valid " + strings.ToUpper(string(format))).
			Wrap(err)
	}
	f.source = source
	f.applyDefaults()
	return f, nil
}

// Prefix is the endpoint prefix. It decodes from a "/"-separated string or
// from a list of segments.
type Prefix []string

// String joins the segments with "/".
func (p Prefix) String() string {
	return registry.JoinPath(p...)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Prefix) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = registry.SplitPrefix(s)
		return nil
	}
	var segments []string
	if err := json.Unmarshal(data, &segments); err != nil {
		return fmt.Errorf("url_prefix must be a string or a list of strings")
	}
	*p = segments
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Prefix) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = registry.SplitPrefix(node.Value)
		return nil
	case yaml.SequenceNode:
		var segments []string
		if err := node.Decode(&segments); err != nil {
			return err
		}
		*p = segments
		return nil
	}
	return fmt.Errorf("line %d: url_prefix must be a string or a list of strings", node.Line)
}

// NamedService is a service together with its key in the document.
type NamedService struct {
	Name    string
	Service Service
}

// Services is the "services" mapping in document order.
type Services []NamedService

// UnmarshalJSON implements json.Unmarshaler, keeping key order. Duplicate
// keys are kept so that registry validation can report them.
func (s *Services) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("services must be an object")
	}
	out := Services{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("services: unexpected token %v", tok)
		}
		var svc Service
		if err := dec.Decode(&svc); err != nil {
			return fmt.Errorf("services.%s: %w", name, err)
		}
		out = append(out, NamedService{Name: name, Service: svc})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON implements json.Marshaler, writing services in order.
func (s Services) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ns := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ns.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ns.Service)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping key order.
func (s *Services) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: services must be a mapping", node.Line)
	}
	out := make(Services, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var svc Service
		if err := value.Decode(&svc); err != nil {
			return fmt.Errorf("services.%s: %w", key.Value, err)
		}
		out = append(out, NamedService{Name: key.Value, Service: svc})
	}
	*s = out
	return nil
}
