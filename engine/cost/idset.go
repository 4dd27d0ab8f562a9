package cost

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// IDSet is a set of texture identifiers.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Merge adds every identifier of other to s.
func (s IDSet) Merge(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the identifiers in byte order.
func (s IDSet) Sorted() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// TextureSets holds the textures an object references, by use.
type TextureSets struct {
	Diffuse  IDSet
	Sculpt   IDSet
	Normal   IDSet
	Specular IDSet
}

func NewTextureSets() TextureSets {
	return TextureSets{
		Diffuse:  NewIDSet(),
		Sculpt:   NewIDSet(),
		Normal:   NewIDSet(),
		Specular: NewIDSet(),
	}
}

// ByUse is the set holding the textures of the given use, nil for an unknown use.
func (ts *TextureSets) ByUse(use metadata.TextureUse) IDSet {
	switch use {
	case metadata.TextureUseMapDiffuse:
		return ts.Diffuse
	case metadata.TextureUseSculpt:
		return ts.Sculpt
	case metadata.TextureUseMapNormal:
		return ts.Normal
	case metadata.TextureUseMapSpecular:
		return ts.Specular
	default:
		return nil
	}
}

func (ts *TextureSets) Merge(other *TextureSets) {
	ts.Diffuse.Merge(other.Diffuse)
	ts.Sculpt.Merge(other.Sculpt)
	ts.Normal.Merge(other.Normal)
	ts.Specular.Merge(other.Specular)
}
