package availability

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/planavail/core/model"
)

// LoadRequest reads a Request from a JSON or YAML file.
func LoadRequest(path string) (model.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Request{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeRequest(f, ext)
}

// DecodeRequest reads a Request from r. YAML documents are converted to JSON
// first so that both formats share the wire codec of the model package.
func DecodeRequest(r io.Reader, format string) (model.Request, error) {
	var req model.Request
	switch strings.ToLower(format) {
	case "json":
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, fmt.Errorf("decode request: %w", err)
		}
	case "yaml", "yml":
		var doc any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return req, fmt.Errorf("decode request: %w", err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return req, fmt.Errorf("convert request: %w", err)
		}
		if err := json.Unmarshal(b, &req); err != nil {
			return req, fmt.Errorf("decode request: %w", err)
		}
	default:
		return req, fmt.Errorf("unsupported request format: %s", format)
	}
	return req, nil
}
