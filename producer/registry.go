package producer

import "github.com/pdflayout/pdflayout"

// registry interns Fonts and Colors at load time (spec.md §9's design
// note: "represent FontFace as a hashable record and intern at Document
// load"), assigning each distinct value a document-unique id the first
// time it's seen.
type registry struct {
	fontIDs   map[fontKey]int
	fontOrder []fontKey

	colorIDs   map[colorKey]int
	colorOrder []colorKey
}

type fontKey struct {
	Name     string
	IsBold   bool
	IsItalic bool
}

type colorKey struct {
	R, G, B int
}

func newRegistry() *registry {
	return &registry{
		fontIDs:  make(map[fontKey]int),
		colorIDs: make(map[colorKey]int),
	}
}

func (r *registry) internFont(name string, isBold, isItalic bool) pdflayout.Font {
	key := fontKey{Name: name, IsBold: isBold, IsItalic: isItalic}
	if id, ok := r.fontIDs[key]; ok {
		return pdflayout.Font{ID: id, Name: name, Family: name, BaseName: name, IsBold: isBold, IsItalic: isItalic}
	}
	id := len(r.fontOrder)
	r.fontIDs[key] = id
	r.fontOrder = append(r.fontOrder, key)
	return pdflayout.Font{ID: id, Name: name, Family: name, BaseName: name, IsBold: isBold, IsItalic: isItalic}
}

func (r *registry) internColor(red, green, blue int) pdflayout.Color {
	key := colorKey{R: red, G: green, B: blue}
	if id, ok := r.colorIDs[key]; ok {
		return pdflayout.Color{ID: id, R: red, G: green, B: blue}
	}
	id := len(r.colorOrder)
	r.colorIDs[key] = id
	r.colorOrder = append(r.colorOrder, key)
	return pdflayout.Color{ID: id, R: red, G: green, B: blue}
}

func (r *registry) fonts() []pdflayout.Font {
	out := make([]pdflayout.Font, len(r.fontOrder))
	for i, k := range r.fontOrder {
		out[i] = pdflayout.Font{ID: i, Name: k.Name, Family: k.Name, BaseName: k.Name, IsBold: k.IsBold, IsItalic: k.IsItalic}
	}
	return out
}

func (r *registry) colors() []pdflayout.Color {
	out := make([]pdflayout.Color, len(r.colorOrder))
	for i, k := range r.colorOrder {
		out[i] = pdflayout.Color{ID: i, R: k.R, G: k.G, B: k.B}
	}
	return out
}
