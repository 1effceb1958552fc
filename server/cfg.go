package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/lasermaze/model"
)

var facings = map[byte]int{'^': 0, '>': 90, 'v': 180, '<': 270}

// LoadLevels reads every *.txt board in dir, ordered by file name.
func LoadLevels(dir string) ([]model.Grid, error) {
	names, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no levels in %s", dir)
	}
	sort.Strings(names)

	levels := make([]model.Grid, 0, len(names))
	for _, name := range names {
		g, err := Load(name)
		if err != nil {
			return nil, err
		}
		levels = append(levels, g)
	}
	return levels, nil
}

func Load(name string) (model.Grid, error) {
	file, err := os.Open(name)
	if err != nil {
		log.Printf("failed opening file: %s", err)
		return model.Grid{}, err
	}
	defer file.Close()
	g, err := read(file)
	if err != nil {
		return model.Grid{}, fmt.Errorf("%s: %w", name, err)
	}
	log.Debugf("loaded %s, %dx%d with %d tokens", name, g.Dimension(), g.Dimension(), len(g.Tokens()))
	return g, nil
}

// read parses a board drawn as rows of two-character cells separated by a
// space: a kind (. L M T) followed by a facing (^ > v <, or . when empty).
func read(reader io.Reader) (model.Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	rows := make([][]string, 0)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		rows = append(rows, strings.Fields(s))
	}
	if err := scanner.Err(); err != nil {
		return model.Grid{}, err
	}
	if len(rows) == 0 {
		return model.Grid{}, fmt.Errorf("empty level")
	}

	g := model.NewGrid(len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			return model.Grid{}, fmt.Errorf("row %d has %d cells, want %d", y+1, len(row), len(rows))
		}
		for x, cell := range row {
			token, ok, err := parseCell(cell)
			if err != nil {
				return model.Grid{}, fmt.Errorf("row %d col %d: %w", y+1, x+1, err)
			}
			if !ok {
				continue
			}
			if g, err = model.Place(g, x, y, token); err != nil {
				return model.Grid{}, err
			}
		}
	}
	return g, nil
}

func parseCell(cell string) (model.Token, bool, error) {
	if len(cell) != 2 {
		return model.Token{}, false, fmt.Errorf("bad cell %q", cell)
	}
	if cell == ".." {
		return model.Token{}, false, nil
	}
	angle, ok := facings[cell[1]]
	if !ok {
		return model.Token{}, false, fmt.Errorf("bad facing in %q", cell)
	}
	switch cell[0] {
	case 'L':
		return model.NewLaser(angle), true, nil
	case 'M':
		return model.NewMirror(angle), true, nil
	case 'T':
		return model.NewTarget(angle), true, nil
	default:
		return model.Token{}, false, fmt.Errorf("bad kind in %q", cell)
	}
}

// Format writes g in the same text form read understands.
func Format(w io.Writer, g model.Grid) error {
	kinds := map[model.TokenKind]byte{model.LASER: 'L', model.MIRROR: 'M', model.TARGET: 'T'}
	marks := [4]byte{'^', '>', 'v', '<'}
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Dimension(); y++ {
		for x := 0; x < g.Dimension(); x++ {
			if x > 0 {
				bw.WriteByte(' ')
			}
			t, ok := g.Token(x, y)
			if !ok {
				bw.WriteString("..")
				continue
			}
			bw.WriteByte(kinds[t.Kind])
			bw.WriteByte(marks[model.Quarter(t.Angle)])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
