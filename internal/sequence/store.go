package sequence

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/roach88/graphcalc/internal/ir"
)

// MaxSequences is the number of sequences a Store can hold.
const MaxSequences = 3

// Color is an RGB color in "#rrggbb" form.
type Color string

// Names and default colors, in allocation order.
var (
	Names         = [MaxSequences]string{"u", "v", "w"}
	DefaultColors = [MaxSequences]Color{"#C03535", "#4F86BD", "#50A04B"}
)

var (
	// ErrFull is returned by Add when every name is taken.
	ErrFull = errors.New("sequence store is full")

	// ErrNotFound is returned when no sequence has the requested name.
	ErrNotFound = errors.New("sequence not found")
)

// Sequence is one explicit sequence.
type Sequence struct {
	Name       string
	Color      Color
	Definition string // Expression in n; empty while undefined
	Active     bool
}

// IsDefined reports whether s has a definition.
func (s Sequence) IsDefined() bool { return s.Definition != "" }

// Record returns the canonical form of s.
func (s Sequence) Record() ir.IRObject {
	return ir.IRObject{
		"name":       ir.IRString(s.Name),
		"color":      ir.IRString(string(s.Color)),
		"definition": ir.IRString(s.Definition),
		"active":     ir.IRBool(s.Active),
	}
}

// Store is an ordered, fixed-capacity list of sequences.
type Store struct {
	sequences []Sequence
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sequences: make([]Sequence, 0, MaxSequences)}
}

// Len returns the number of sequences.
func (s *Store) Len() int { return len(s.sequences) }

// At returns the i-th sequence. It panics if i is out of range.
func (s *Store) At(i int) Sequence {
	if i < 0 || i >= len(s.sequences) {
		panic(fmt.Sprintf("sequence: index %d out of range [0, %d)", i, len(s.sequences)))
	}
	return s.sequences[i]
}

// All returns a copy of the sequences in order.
func (s *Store) All() []Sequence {
	return append([]Sequence(nil), s.sequences...)
}

// Defined returns the active sequences that have a definition.
func (s *Store) Defined() []Sequence {
	var out []Sequence
	for _, seq := range s.sequences {
		if seq.Active && seq.IsDefined() {
			out = append(out, seq)
		}
	}
	return out
}

// Lookup returns the sequence called name.
func (s *Store) Lookup(name string) (Sequence, bool) {
	i := s.index(name)
	if i < 0 {
		return Sequence{}, false
	}
	return s.sequences[i], true
}

func (s *Store) index(name string) int {
	for i, seq := range s.sequences {
		if seq.Name == name {
			return i
		}
	}
	return -1
}

// Add appends an active sequence with the first free name and color.
func (s *Store) Add(definition string) (Sequence, error) {
	if len(s.sequences) >= MaxSequences {
		return Sequence{}, ErrFull
	}
	seq := Sequence{
		Name:       s.firstAvailableName(),
		Color:      s.firstAvailableColor(),
		Definition: definition,
		Active:     true,
	}
	s.sequences = append(s.sequences, seq)
	return seq, nil
}

// Remove deletes the sequence called name. Later sequences move up.
func (s *Store) Remove(name string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", name, ErrNotFound)
	}
	s.sequences = append(s.sequences[:i], s.sequences[i+1:]...)
	return nil
}

// SetDefinition replaces the definition of the sequence called name.
func (s *Store) SetDefinition(name, definition string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("define %s: %w", name, ErrNotFound)
	}
	s.sequences[i].Definition = definition
	return nil
}

// SetActive shows or hides the sequence called name.
func (s *Store) SetActive(name string, active bool) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("activate %s: %w", name, ErrNotFound)
	}
	s.sequences[i].Active = active
	return nil
}

func (s *Store) firstAvailableName() string {
	for _, name := range Names {
		if s.index(name) < 0 {
			return name
		}
	}
	return Names[0]
}

func (s *Store) firstAvailableColor() Color {
	for _, color := range DefaultColors {
		taken := false
		for _, seq := range s.sequences {
			if seq.Color == color {
				taken = true
				break
			}
		}
		if !taken {
			return color
		}
	}
	return DefaultColors[0]
}

// Checksum returns the CRC-32 (IEEE) of the canonical records in order.
// Saved state is compared against it to detect changes.
func (s *Store) Checksum() uint32 {
	h := crc32.NewIEEE()
	for _, seq := range s.sequences {
		data, err := ir.MarshalCanonical(seq.Record())
		if err != nil {
			panic(fmt.Sprintf("sequence: canonical record: %v", err))
		}
		h.Write(data)
	}
	return h.Sum32()
}
