package engine

import (
	"fmt"
	"sort"
)

// Coordinate identifies a question inside the active round.
type Coordinate struct {
	Theme    int `json:"theme"`
	Question int `json:"question"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Theme, c.Question)
}

func less(a, b Coordinate) bool {
	if a.Theme != b.Theme {
		return a.Theme < b.Theme
	}
	return a.Question < b.Question
}

// coordSet holds the questions that can still be selected in the active round.
type coordSet map[Coordinate]struct{}

func (s coordSet) add(c Coordinate) { s[c] = struct{}{} }

func (s coordSet) remove(c Coordinate) bool {
	if _, ok := s[c]; !ok {
		return false
	}
	delete(s, c)
	return true
}

func (s coordSet) has(c Coordinate) bool {
	_, ok := s[c]
	return ok
}

func (s coordSet) clear() {
	for c := range s {
		delete(s, c)
	}
}

// sorted returns the members ordered by theme then question so that a seeded
// random pick is reproducible.
func (s coordSet) sorted() []Coordinate {
	out := make([]Coordinate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// themeSet holds the final round themes not yet eliminated.
type themeSet map[int]struct{}

func (s themeSet) add(i int) { s[i] = struct{}{} }

func (s themeSet) remove(i int) bool {
	if _, ok := s[i]; !ok {
		return false
	}
	delete(s, i)
	return true
}

func (s themeSet) has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s themeSet) clear() {
	for i := range s {
		delete(s, i)
	}
}

func (s themeSet) sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// coordStack is a LIFO of selections, used for History and Forward.
type coordStack []Coordinate

func (s *coordStack) push(c Coordinate) { *s = append(*s, c) }

func (s *coordStack) pop() (Coordinate, bool) {
	n := len(*s)
	if n == 0 {
		return Coordinate{}, false
	}
	c := (*s)[n-1]
	*s = (*s)[:n-1]
	return c, true
}

func (s *coordStack) clear() { *s = (*s)[:0] }

// drop removes every occurrence of c, keeping the order of the rest.
func (s *coordStack) drop(c Coordinate) {
	kept := (*s)[:0]
	for _, x := range *s {
		if x != c {
			kept = append(kept, x)
		}
	}
	*s = kept
}

func (s coordStack) len() int { return len(s) }

func (s coordStack) items() []Coordinate {
	out := make([]Coordinate, len(s))
	copy(out, s)
	return out
}
