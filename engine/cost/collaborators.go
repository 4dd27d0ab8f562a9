package cost

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// Face is the read-only view of one rendered face of a volume.
type Face interface {
	PoolType() metadata.PoolType
	// TextureEntry returns nil when the face has no texture entry.
	TextureEntry() *metadata.TextureEntry
	// Texture returns the diffuse texture bound to the face, nil when none.
	Texture() *metadata.Texture
	HasMedia() bool
	// HasTextureMatrix reports an animated texture.
	HasTextureMatrix() bool
}

// Volume is the read-only view of an object the estimator scores.
type Volume interface {
	ID() uuid.UUID
	HasGeometry() bool
	Scale() math.Vec3
	// Faces returns nil when the object has no drawable.
	Faces() []Face
	IsFlexible() bool
	IsMesh() bool
	IsRiggedMesh() bool
	IsSculpted() bool
	SculptTexture() uuid.UUID
	IsLight() bool
	// ParticleSource returns nil when the object emits no particles.
	ParticleSource() *metadata.ParticleSystem
	IsAnimatedObject() bool
	IsRootEdit() bool
	IsHUDAttachment() bool
	MeshCostData() (*metadata.MeshCostData, bool)
	TriangleCount() uint32
	LODTriangleCount(lod metadata.LOD) uint32
	// Children returns the rigidly attached child volumes.
	Children() []Volume
}

// TextureResolver looks up fetched textures by identifier.
type TextureResolver interface {
	Texture(id uuid.UUID) (*metadata.Texture, bool)
}

// AttachmentPoint groups the objects worn on one avatar joint.
type AttachmentPoint struct {
	Name    string
	Objects []Volume
}

type Avatar interface {
	ID() uuid.UUID
	Name() string
	IsSelf() bool
	RezStatus() string
	// ReportedComplexity is the complexity the avatar's own viewer reported.
	ReportedComplexity() uint32
	AttachmentPoints() []AttachmentPoint
}

type noTextures struct{}

func (noTextures) Texture(uuid.UUID) (*metadata.Texture, bool) {
	return nil, false
}
