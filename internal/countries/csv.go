package countries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// LoadAliases reads numeric-id to alpha-2 pairs from a CSV file.
// Column detection: id|numeric|iso_n3 and alpha2|code|iso_a2 (case-insensitive).
// Without a recognised header the first two columns are used.
func LoadAliases(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.Comment = '#'
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("aliases csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("aliases csv: empty file")
	}
	idxID, idxCode := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id", "numeric", "iso_n3":
			if idxID == -1 {
				idxID = i
			}
		case "alpha2", "code", "iso_a2":
			if idxCode == -1 {
				idxCode = i
			}
		}
	}
	rows := recs
	if idxID != -1 || idxCode != -1 {
		if idxID == -1 || idxCode == -1 {
			return nil, errors.New("aliases csv: id/alpha2 columns not found")
		}
		rows = recs[1:]
	} else {
		idxID, idxCode = 0, 1
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if idxID >= len(row) || idxCode >= len(row) {
			continue
		}
		id := NormalizeID(row[idxID])
		if id == "" {
			continue
		}
		out[id] = strings.TrimSpace(row[idxCode])
	}
	if len(out) == 0 {
		return nil, errors.New("aliases csv: no rows parsed")
	}
	return out, nil
}
