// Package render writes outcomes as JSON, YAML or a styled terminal view.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	JSON   Format = "json"
	YAML   Format = "yaml"
	Pretty Format = "pretty"
)

// ParseFormat accepts json, yaml (or yml) and pretty. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "pretty":
		return Pretty, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml or pretty)", s)
}

// Write encodes v to w. Pretty output covers writing and coach outcomes;
// other values fall back to JSON.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case YAML:
		return writeYAML(w, v)
	case Pretty:
		if view, ok := prettyView(v); ok {
			_, err := fmt.Fprintln(w, view)
			return err
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON so the json tags decide field names and
// omission. Parsing into a node keeps key order.
func writeYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles inherited from the JSON
// text.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
