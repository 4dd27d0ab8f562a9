package cost

import (
	"bytes"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

type fakeFace struct {
	pool     metadata.PoolType
	te       *metadata.TextureEntry
	tex      *metadata.Texture
	media    bool
	animated bool
}

func (f *fakeFace) PoolType() metadata.PoolType          { return f.pool }
func (f *fakeFace) TextureEntry() *metadata.TextureEntry { return f.te }
func (f *fakeFace) Texture() *metadata.Texture           { return f.tex }
func (f *fakeFace) HasMedia() bool                       { return f.media }
func (f *fakeFace) HasTextureMatrix() bool               { return f.animated }

type fakeVolume struct {
	id        uuid.UUID
	geometry  bool
	scale     math.Vec3
	faces     []Face
	flexible  bool
	mesh      bool
	rigged    bool
	sculpted  bool
	sculptID  uuid.UUID
	light     bool
	particles *metadata.ParticleSystem
	animated  bool
	root      bool
	hud       bool
	costData  *metadata.MeshCostData
	lodTris   [metadata.NumLODs]uint32
	children  []Volume
}

func (v *fakeVolume) ID() uuid.UUID                            { return v.id }
func (v *fakeVolume) HasGeometry() bool                        { return v.geometry }
func (v *fakeVolume) Scale() math.Vec3                         { return v.scale }
func (v *fakeVolume) Faces() []Face                            { return v.faces }
func (v *fakeVolume) IsFlexible() bool                         { return v.flexible }
func (v *fakeVolume) IsMesh() bool                             { return v.mesh }
func (v *fakeVolume) IsRiggedMesh() bool                       { return v.rigged }
func (v *fakeVolume) IsSculpted() bool                         { return v.sculpted }
func (v *fakeVolume) SculptTexture() uuid.UUID                 { return v.sculptID }
func (v *fakeVolume) IsLight() bool                            { return v.light }
func (v *fakeVolume) ParticleSource() *metadata.ParticleSystem { return v.particles }
func (v *fakeVolume) IsAnimatedObject() bool                   { return v.animated }
func (v *fakeVolume) IsRootEdit() bool                         { return v.root }
func (v *fakeVolume) IsHUDAttachment() bool                    { return v.hud }
func (v *fakeVolume) TriangleCount() uint32                    { return v.lodTris[metadata.LODHigh] }
func (v *fakeVolume) LODTriangleCount(lod metadata.LOD) uint32 { return v.lodTris[lod] }
func (v *fakeVolume) Children() []Volume                       { return v.children }
func (v *fakeVolume) MeshCostData() (*metadata.MeshCostData, bool) {
	return v.costData, v.costData != nil
}

// newPrim is a plain box: geometry, unit scale, no mesh data.
func newPrim(faces ...Face) *fakeVolume {
	return &fakeVolume{
		id:       uuid.New(),
		geometry: true,
		scale:    math.Vec3One(),
		faces:    faces,
		root:     true,
	}
}

type fakeAvatar struct {
	id       uuid.UUID
	name     string
	self     bool
	reported uint32
	points   []AttachmentPoint
}

func (a *fakeAvatar) ID() uuid.UUID                       { return a.id }
func (a *fakeAvatar) Name() string                        { return a.name }
func (a *fakeAvatar) IsSelf() bool                        { return a.self }
func (a *fakeAvatar) RezStatus() string                   { return "full" }
func (a *fakeAvatar) ReportedComplexity() uint32          { return a.reported }
func (a *fakeAvatar) AttachmentPoints() []AttachmentPoint { return a.points }

type fakeResolver map[uuid.UUID]*metadata.Texture

func (r fakeResolver) Texture(id uuid.UUID) (*metadata.Texture, bool) {
	tex, ok := r[id]
	return tex, ok
}

func newTexture(width, height uint32, discard int32) *metadata.Texture {
	return &metadata.Texture{
		ID:           uuid.New(),
		Width:        width,
		Height:       height,
		ChannelCount: 4,
		Format:       metadata.TextureFormatRGBA,
		DiscardLevel: discard,
	}
}

func (r fakeResolver) add(tex *metadata.Texture) *metadata.Texture {
	r[tex.ID] = tex
	return tex
}

// captureLog redirects the process logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
	return &buf
}
