// Package persona holds the fixed set of synthetic conversation partners.
package persona

import "fmt"

// Persona is immutable once the registry is built.
type Persona struct {
	ID    string
	Name  string
	Age   int
	City  string
	Bio   string
	Style string
	// Voice is the prebuilt voice name passed to the speech synthesizer.
	Voice string
}

// Header is the first-person framing every system instruction starts with.
func (p Persona) Header() string {
	return fmt.Sprintf("You are %s, %d years old, living in %s. Your tone: %s. Biography: %s.",
		p.Name, p.Age, p.City, p.Style, p.Bio)
}

var builtin = []Persona{
	{
		ID:    "lukas",
		Name:  "Lukas",
		Age:   22,
		City:  "Berlin",
		Bio:   "computer science student who plays football and loves techno and street food",
		Style: "casual, relaxed, uses youth slang but stays friendly",
		Voice: "Puck",
	},
	{
		ID:    "thomas",
		Name:  "Thomas",
		Age:   38,
		City:  "Hamburg",
		Bio:   "graphic designer, married with one child, enjoys cycling along the Elbe and cooking",
		Style: "calm, polite, practical with a touch of northern humour",
		Voice: "Charon",
	},
	{
		ID:    "elsa",
		Name:  "Elsa",
		Age:   67,
		City:  "München",
		Bio:   "retired school teacher who gardens, reads novels and goes to the opera",
		Style: "warm, patient, speaks clearly and a little old-fashioned",
		Voice: "Aoede",
	},
}

// Random is the subset of math/rand/v2 the registry needs.
type Random interface {
	IntN(n int) int
}

type Registry struct {
	personas []Persona
	byID     map[string]Persona
	rnd      Random
}

// NewRegistry builds a registry over personas, or over the built-in set when none are given.
func NewRegistry(rnd Random, personas ...Persona) *Registry {
	if len(personas) == 0 {
		personas = builtin
	}
	r := &Registry{
		personas: make([]Persona, len(personas)),
		byID:     make(map[string]Persona, len(personas)),
		rnd:      rnd,
	}
	copy(r.personas, personas)
	for _, p := range personas {
		r.byID[p.ID] = p
	}
	return r
}

// Pick chooses a persona for a new session.
func (r *Registry) Pick() Persona {
	return r.personas[r.rnd.IntN(len(r.personas))]
}

// Get resolves a stored persona id. Unknown ids resolve to the first persona so
// sessions written by an older build keep working.
func (r *Registry) Get(id string) Persona {
	if p, ok := r.byID[id]; ok {
		return p
	}
	return r.personas[0]
}

func (r *Registry) All() []Persona {
	out := make([]Persona, len(r.personas))
	copy(out, r.personas)
	return out
}
