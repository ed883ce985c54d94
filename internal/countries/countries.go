// Package countries maps dataset country identifiers to ISO 3166-1 alpha-2
// codes and classifies those codes against a visited set.
package countries

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed countries.csv
var tableData string

var (
	defaultAliases map[string]string
	codeToName     map[string]string
	once           sync.Once
)

// DefaultVisited is the visited list the map ships with.
var DefaultVisited = []string{
	"GB", "IE", "FR", "ES", "BE", "PT", "CY", "IT", "CH", "AT",
	"HU", "CZ", "SK", "HR", "ME", "AL", "MK", "GR", "TR", "PL",
	"DE", "LT", "LV", "EE", "FI", "SE", "DK", "SI", "IS", "US",
	"KG", "CN", "VN", "TH", "LK", "BG", "XK",
}

func loadTable() {
	once.Do(func() {
		defaultAliases = make(map[string]string, 256)
		codeToName = make(map[string]string, 256)
		r := csv.NewReader(strings.NewReader(tableData))
		r.Comment = '#'
		r.FieldsPerRecord = 3
		for {
			rec, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				panic("countries: embedded table: " + err.Error())
			}
			code := strings.ToUpper(rec[1])
			defaultAliases[NormalizeID(rec[0])] = code
			codeToName[code] = rec[2]
		}
	})
}

// DefaultAliases returns a fresh copy of the embedded numeric to alpha-2 table.
func DefaultAliases() map[string]string {
	loadTable()
	out := make(map[string]string, len(defaultAliases))
	for k, v := range defaultAliases {
		out[k] = v
	}
	return out
}

// Name returns the English short name for an alpha-2 code, or "" if unknown.
func Name(code string) string {
	loadTable()
	return codeToName[strings.ToUpper(strings.TrimSpace(code))]
}

// Codes lists every alpha-2 code in the embedded table, sorted.
func Codes() []string {
	loadTable()
	out := make([]string, 0, len(codeToName))
	for c := range codeToName {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NormalizeID trims an identifier and zero-pads non-negative integers to
// three digits, the width ISO numeric codes are published with. Negative
// sentinels and non-numeric ids are only trimmed.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "-") {
		return id
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return id
	}
	return fmt.Sprintf("%03d", n)
}

// normalizeCode upper-cases a code and reports whether it is two ASCII letters.
func normalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return code, false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return code, false
		}
	}
	return code, true
}
