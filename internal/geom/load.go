package geom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxSourceBytes bounds remote downloads.
const maxSourceBytes = 64 << 20

// Load reads a dataset from a file path or an http(s) URL and decodes it.
// object names the TopoJSON object to extract and is ignored for other formats.
func Load(ctx context.Context, source, object string) ([]Feature, error) {
	data, err := readSource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	features, err := Decode(source, data, object)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	return features, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if !isURL(source) {
		return os.ReadFile(source)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
}

// Decode picks a decoder from the name's extension, falling back to the
// JSON "type" member for .json and unknown extensions.
func Decode(name string, data []byte, object string) ([]Feature, error) {
	base := name
	if isURL(name) {
		base = path.Base(name)
	}
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".wkt":
		f, err := ParseWKT(strings.TrimSuffix(filepath.Base(base), filepath.Ext(base)), string(data))
		if err != nil {
			return nil, err
		}
		return []Feature{f}, nil
	case ".kml":
		return DecodeKML(data)
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("not json (%v): %w", err, ErrUnsupportedFormat)
	}
	if head.Type == "Topology" {
		fc, err := DecodeTopoJSON(data, object)
		if err != nil {
			return nil, err
		}
		features := FromFeatureCollection(fc)
		if len(features) == 0 {
			return nil, fmt.Errorf("topojson: %w", ErrNoFeatures)
		}
		return features, nil
	}
	return DecodeGeoJSON(data)
}
