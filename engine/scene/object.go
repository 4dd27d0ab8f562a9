package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// Face is one rendered face of an Object.
type Face struct {
	pool     metadata.PoolType
	entry    *metadata.TextureEntry
	texture  *metadata.Texture
	media    bool
	animated bool
}

func (f *Face) PoolType() metadata.PoolType          { return f.pool }
func (f *Face) TextureEntry() *metadata.TextureEntry { return f.entry }
func (f *Face) Texture() *metadata.Texture           { return f.texture }
func (f *Face) HasMedia() bool                       { return f.media }
func (f *Face) HasTextureMatrix() bool               { return f.animated }

// Object is a prim or mesh of the scene. Objects without a parent are the
// roots of their linkset.
type Object struct {
	id        uuid.UUID
	name      string
	geometry  bool
	scale     math.Vec3
	faces     []cost.Face
	flexible  bool
	mesh      bool
	rigged    bool
	sculpted  bool
	sculptID  uuid.UUID
	light     bool
	particles *metadata.ParticleSystem
	animated  bool
	hud       bool
	costData  *metadata.MeshCostData
	lodTris   [metadata.NumLODs]uint32
	parent    *Object
	children  []*Object
}

func (o *Object) ID() uuid.UUID                            { return o.id }
func (o *Object) Name() string                             { return o.name }
func (o *Object) HasGeometry() bool                        { return o.geometry }
func (o *Object) Scale() math.Vec3                         { return o.scale }
func (o *Object) Faces() []cost.Face                       { return o.faces }
func (o *Object) IsFlexible() bool                         { return o.flexible }
func (o *Object) IsMesh() bool                             { return o.mesh }
func (o *Object) IsRiggedMesh() bool                       { return o.rigged }
func (o *Object) IsSculpted() bool                         { return o.sculpted }
func (o *Object) SculptTexture() uuid.UUID                 { return o.sculptID }
func (o *Object) IsLight() bool                            { return o.light }
func (o *Object) ParticleSource() *metadata.ParticleSystem { return o.particles }
func (o *Object) IsAnimatedObject() bool                   { return o.root().animated }
func (o *Object) IsRootEdit() bool                         { return o.parent == nil }
func (o *Object) IsHUDAttachment() bool                    { return o.root().hud }
func (o *Object) TriangleCount() uint32                    { return o.lodTris[metadata.LODHigh] }
func (o *Object) LODTriangleCount(lod metadata.LOD) uint32 { return o.lodTris[lod] }
func (o *Object) Parent() *Object                          { return o.parent }

func (o *Object) MeshCostData() (*metadata.MeshCostData, bool) {
	return o.costData, o.costData != nil
}

func (o *Object) Children() []cost.Volume {
	children := make([]cost.Volume, 0, len(o.children))
	for _, child := range o.children {
		children = append(children, child)
	}
	return children
}

// root walks up to the root of the linkset. Animation and HUD placement
// are properties of the whole linkset.
func (o *Object) root() *Object {
	for o.parent != nil {
		o = o.parent
	}
	return o
}
