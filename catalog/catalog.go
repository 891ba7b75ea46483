package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmpty = errors.New("empty-catalog")

// Catalog is the ordered list of prompt names loaded once at startup.
// The index position is the stable identity used throughout the game;
// the text itself never is.
type Catalog struct {
	names   []string
	indexOf map[string]int
}

func New(names []string) (*Catalog, error) {
	c := &Catalog{
		names:   make([]string, 0, len(names)),
		indexOf: make(map[string]int, len(names)),
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := c.indexOf[name]; dup {
			continue
		}
		c.indexOf[name] = len(c.names)
		c.names = append(c.names, name)
	}

	if len(c.names) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// LoadFile reads one prompt name per line, trimming whitespace and
// skipping blank lines.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return New(names)
}

func (c *Catalog) Len() int {
	return len(c.names)
}

// Name returns the prompt at index i, or "" if i is out of range.
func (c *Catalog) Name(i int) string {
	if i < 0 || i >= len(c.names) {
		return ""
	}
	return c.names[i]
}

func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.indexOf[strings.TrimSpace(name)]
	return i, ok
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
