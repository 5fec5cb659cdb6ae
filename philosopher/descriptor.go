// Package philosopher runs the actors of a dinner.
//
// Each philosopher is described by a Descriptor naming the two forks next to
// it. A Runner takes both forks in the sequence given by an Order, eats while
// holding them, then puts them back.
package philosopher // import "github.com/nickng/dinephil/philosopher"

import "fmt"

// DefaultNames are the guests of the default dinner.
var DefaultNames = []string{
	"Baruch Spinoza",
	"Gilles Deleuze",
	"Karl Marx",
	"Friedrich Nietzsche",
	"Michel Foucault",
}

// Descriptor is one seat at the table.
type Descriptor struct {
	Name  string `yaml:"name" json:"name"`
	Left  int    `yaml:"left" json:"left"`
	Right int    `yaml:"right" json:"right"`
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%d,%d)", d.Name, d.Left, d.Right)
}

// Ring seats names around a table of len(names) forks: philosopher i has
// fork i on the left and fork i+1 (mod n) on the right.
func Ring(names []string) []Descriptor {
	seating := make([]Descriptor, len(names))
	for i, name := range names {
		seating[i] = Descriptor{Name: name, Left: i, Right: (i + 1) % len(names)}
	}
	return seating
}

// Validate checks every descriptor of seating against a table of slots
// forks. It returns the first *DescriptorError found.
func Validate(seating []Descriptor, slots int) error {
	seen := make(map[string]int)
	for i, d := range seating {
		switch {
		case d.Name == "":
			return &DescriptorError{Seat: i, Descriptor: d, Reason: "empty name"}
		case d.Left < 0 || d.Left >= slots:
			return &DescriptorError{Seat: i, Descriptor: d, Reason: fmt.Sprintf("left fork out of range [0, %d)", slots)}
		case d.Right < 0 || d.Right >= slots:
			return &DescriptorError{Seat: i, Descriptor: d, Reason: fmt.Sprintf("right fork out of range [0, %d)", slots)}
		case d.Left == d.Right:
			return &DescriptorError{Seat: i, Descriptor: d, Reason: "left and right are the same fork"}
		}
		if j, dup := seen[d.Name]; dup {
			return &DescriptorError{Seat: i, Descriptor: d, Reason: fmt.Sprintf("name already seated at %d", j)}
		}
		seen[d.Name] = i
	}
	return nil
}

type link struct{ lo, hi int }

func linkOf(a, b int) link {
	if a > b {
		a, b = b, a
	}
	return link{a, b}
}

// ValidateRing checks that seating is valid and covers every link
// (j, j+1 mod slots) of the ring exactly once.
func ValidateRing(seating []Descriptor, slots int) error {
	if err := Validate(seating, slots); err != nil {
		return err
	}
	if len(seating) != slots {
		return fmt.Errorf("ring of %d forks needs %d philosophers, got %d", slots, slots, len(seating))
	}
	want := make(map[link]int)
	for j := 0; j < slots; j++ {
		want[linkOf(j, (j+1)%slots)]++
	}
	for i, d := range seating {
		l := linkOf(d.Left, d.Right)
		if want[l] == 0 {
			return &DescriptorError{Seat: i, Descriptor: d, Reason: "forks are not neighbours on the ring or link already taken"}
		}
		want[l]--
	}
	return nil
}
