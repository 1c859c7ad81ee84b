package crystal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fgjorup/detgeo/pkg/reference"
)

// ErrMissingTag is returned when a CIF file lacks a required cell item
var ErrMissingTag = errors.New("missing CIF tag")

var cellTags = []string{
	"_cell_length_a",
	"_cell_length_b",
	"_cell_length_c",
	"_cell_angle_alpha",
	"_cell_angle_beta",
	"_cell_angle_gamma",
}

var symbolTags = []string{
	"_space_group_name_h-m_alt",
	"_symmetry_space_group_name_h-m",
}

// ReadCIF reads the unit cell and lattice centring from the first data block
// of a CIF file. Standard uncertainties such as 5.4311(2) are dropped. A file
// without a space group symbol is treated as primitive.
func ReadCIF(r io.Reader) (Cell, error) {
	items := make(map[string]string)
	scanner := bufio.NewScanner(r)
	blocks := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "data_") {
			blocks++
			if blocks > 1 {
				break
			}
			continue
		}
		if !strings.HasPrefix(line, "_") {
			continue
		}
		fields := strings.Fields(line)
		tag := strings.ToLower(fields[0])
		if _, seen := items[tag]; !seen {
			items[tag] = strings.Join(fields[1:], " ")
		}
	}
	if err := scanner.Err(); err != nil {
		return Cell{}, fmt.Errorf("failed to read CIF: %w", err)
	}

	var vals [6]float64
	for i, tag := range cellTags {
		raw, ok := items[tag]
		if !ok || raw == "" {
			return Cell{}, fmt.Errorf("%w: %s", ErrMissingTag, tag)
		}
		v, err := parseNumber(raw)
		if err != nil {
			return Cell{}, fmt.Errorf("invalid value for %s: %w", tag, err)
		}
		vals[i] = v
	}

	cell := Cell{
		A: vals[0], B: vals[1], C: vals[2],
		Alpha: vals[3], Beta: vals[4], Gamma: vals[5],
		Centring: Primitive,
	}
	for _, tag := range symbolTags {
		if sym, ok := items[tag]; ok && strings.Trim(sym, `'" `) != "" {
			c, err := ParseCentring(sym)
			if err != nil {
				return Cell{}, err
			}
			cell.Centring = c
			break
		}
	}
	return cell, cell.Validate()
}

// LoadCIF reads a CIF file and returns its reference pattern named after the
// file, with at most count spacings down to DefaultDMin.
func LoadCIF(path string, count int) (reference.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return reference.Pattern{}, fmt.Errorf("failed to open CIF: %w", err)
	}
	defer f.Close()

	cell, err := ReadCIF(f)
	if err != nil {
		return reference.Pattern{}, fmt.Errorf("%s: %w", path, err)
	}
	return cell.Pattern(filepath.Base(path), DefaultDMin, count)
}

// parseNumber parses a CIF numeric value, stripping a trailing uncertainty
func parseNumber(s string) (float64, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
