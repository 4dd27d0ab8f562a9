package scene

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/math"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// Scene holds the objects, avatars and textures of one description.
type Scene struct {
	Name string

	roots    []*Object
	objects  map[uuid.UUID]*Object
	avatars  []*Avatar
	attached map[uuid.UUID]bool

	textures     []*metadata.Texture
	textureIndex map[uuid.UUID]*metadata.Texture
	texturePaths map[uuid.UUID]string
}

// Object looks up any object of the scene, root or child.
func (s *Scene) Object(id uuid.UUID) (*Object, error) {
	if obj, ok := s.objects[id]; ok {
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownObject, id)
}

func (s *Scene) Avatar(id uuid.UUID) (*Avatar, error) {
	for _, av := range s.avatars {
		if av.id == id {
			return av, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnknownAvatar, id)
}

// Roots returns the linkset roots in declaration order.
func (s *Scene) Roots() []*Object {
	return s.roots
}

// UnattachedRoots returns the linkset roots no avatar is wearing.
func (s *Scene) UnattachedRoots() []*Object {
	roots := make([]*Object, 0, len(s.roots))
	for _, root := range s.roots {
		if !s.attached[root.id] {
			roots = append(roots, root)
		}
	}
	return roots
}

func (s *Scene) Avatars() []*Avatar {
	return s.avatars
}

// Textures returns the declared textures in declaration order.
func (s *Scene) Textures() []*metadata.Texture {
	return s.textures
}

// Texture resolves a declared texture.
func (s *Scene) Texture(id uuid.UUID) (*metadata.Texture, bool) {
	tex, ok := s.textureIndex[id]
	return tex, ok
}

// TexturePath is the image a texture declaration points at, if any.
func (s *Scene) TexturePath(id uuid.UUID) (string, bool) {
	path, ok := s.texturePaths[id]
	return path, ok
}

/**
 * @brief Builds a scene from its description.
 * @param desc The description to build.
 * @return The scene, or an error wrapping core.ErrInvalidScene.
 */
func Build(desc *Description) (*Scene, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil description", core.ErrInvalidScene)
	}
	s := &Scene{
		Name:         desc.Name,
		objects:      make(map[uuid.UUID]*Object),
		attached:     make(map[uuid.UUID]bool),
		textureIndex: make(map[uuid.UUID]*metadata.Texture),
		texturePaths: make(map[uuid.UUID]string),
	}

	for i := range desc.Textures {
		if err := s.addTexture(&desc.Textures[i]); err != nil {
			return nil, err
		}
	}
	for i := range desc.Objects {
		root, err := s.buildObject(&desc.Objects[i], nil)
		if err != nil {
			return nil, err
		}
		s.roots = append(s.roots, root)
	}
	for i := range desc.Avatars {
		av, err := s.buildAvatar(&desc.Avatars[i])
		if err != nil {
			return nil, err
		}
		s.avatars = append(s.avatars, av)
	}

	core.LogDebug("scene %q: %d linksets, %d objects, %d avatars, %d textures",
		s.Name, len(s.roots), len(s.objects), len(s.avatars), len(s.textures))
	return s, nil
}

func (s *Scene) addTexture(td *TextureDescription) error {
	id, err := parseID(td.ID, "texture")
	if err != nil {
		return err
	}
	if _, ok := s.textureIndex[id]; ok {
		return fmt.Errorf("%w: duplicate texture %s", core.ErrInvalidScene, id)
	}

	format := metadata.TextureFormatFromChannels(td.Components)
	if td.Format != "" {
		if format, err = metadata.ParseTextureFormat(td.Format); err != nil {
			return fmt.Errorf("%w: texture %s: %v", core.ErrInvalidScene, id, err)
		}
	}
	if td.Discard < metadata.DiscardLevelNone || td.Discard > metadata.MaxDiscardLevel {
		return fmt.Errorf("%w: texture %s: discard level %d out of range", core.ErrInvalidScene, id, td.Discard)
	}

	name := td.Name
	if name == "" {
		name = td.Path
	}
	tex := &metadata.Texture{
		ID:           id,
		Name:         name,
		Width:        td.Width,
		Height:       td.Height,
		ChannelCount: td.Components,
		Format:       format,
		DiscardLevel: td.Discard,
	}
	s.textures = append(s.textures, tex)
	s.textureIndex[id] = tex
	if td.Path != "" {
		s.texturePaths[id] = td.Path
	}
	return nil
}

// faceTexture returns the declared texture, or a bare identifier the
// resolver will not know about.
func (s *Scene) faceTexture(id uuid.UUID) *metadata.Texture {
	if tex, ok := s.textureIndex[id]; ok {
		return tex
	}
	return &metadata.Texture{ID: id, DiscardLevel: metadata.DiscardLevelNone}
}

func (s *Scene) buildObject(od *ObjectDescription, parent *Object) (*Object, error) {
	id, err := parseID(od.ID, "object")
	if err != nil {
		return nil, err
	}
	if _, ok := s.objects[id]; ok {
		return nil, fmt.Errorf("%w: duplicate object %s", core.ErrInvalidScene, id)
	}

	obj := &Object{
		id:       id,
		name:     od.Name,
		geometry: !od.NoGeometry,
		scale:    math.Vec3One(),
		flexible: od.Flexible,
		mesh:     od.Mesh,
		rigged:   od.Rigged,
		light:    od.Light,
		animated: od.Animated,
		hud:      od.HUD,
		parent:   parent,
	}
	if len(od.Scale) > 0 {
		if len(od.Scale) != 3 {
			return nil, fmt.Errorf("%w: object %s: scale needs 3 components", core.ErrInvalidScene, id)
		}
		obj.scale = math.Vec3FromSlice(od.Scale)
	}

	if od.Sculpt != "" {
		if obj.sculptID, err = uuid.Parse(od.Sculpt); err != nil {
			return nil, fmt.Errorf("%w: object %s: sculpt texture: %v", core.ErrInvalidScene, id, err)
		}
		obj.sculpted = true
	}
	if obj.rigged && !obj.mesh {
		return nil, fmt.Errorf("%w: object %s: only meshes can be rigged", core.ErrInvalidScene, id)
	}

	if err := s.buildCostData(obj, od); err != nil {
		return nil, err
	}
	if od.Particles != nil {
		if obj.particles, err = buildParticles(od.Particles); err != nil {
			return nil, fmt.Errorf("%w: object %s: %v", core.ErrInvalidScene, id, err)
		}
	}
	for i := range od.Faces {
		face, err := s.buildFace(&od.Faces[i])
		if err != nil {
			return nil, fmt.Errorf("%w: object %s face %d: %v", core.ErrInvalidScene, id, i, err)
		}
		obj.faces = append(obj.faces, face)
	}

	s.objects[id] = obj
	for i := range od.Children {
		if len(od.Children[i].Children) > 0 {
			return nil, fmt.Errorf("%w: object %s: children cannot have children", core.ErrInvalidScene, id)
		}
		child, err := s.buildObject(&od.Children[i], obj)
		if err != nil {
			return nil, err
		}
		obj.children = append(obj.children, child)
	}
	return obj, nil
}

func (s *Scene) buildCostData(obj *Object, od *ObjectDescription) error {
	if len(od.LODTriangles) > 0 {
		if len(od.LODTriangles) != metadata.NumLODs {
			return fmt.Errorf("%w: object %s: lod_triangles needs %d entries", core.ErrInvalidScene, obj.id, metadata.NumLODs)
		}
		copy(obj.lodTris[:], od.LODTriangles)
	}
	if len(od.LODBytes) > 0 {
		if len(od.LODBytes) != metadata.NumLODs {
			return fmt.Errorf("%w: object %s: lod_bytes needs %d entries", core.ErrInvalidScene, obj.id, metadata.NumLODs)
		}
		var sizes [metadata.NumLODs]uint32
		copy(sizes[:], od.LODBytes)
		obj.costData, _ = metadata.NewMeshCostData(sizes)
		return nil
	}
	// primitives are charged from their tessellated triangle counts
	if !obj.mesh && len(od.LODTriangles) > 0 {
		obj.costData, _ = metadata.NewPrimMeshCostData(obj.lodTris)
	}
	return nil
}

func (s *Scene) buildFace(fd *FaceDescription) (*Face, error) {
	face := &Face{
		media:    fd.Media,
		animated: fd.AnimatedTexture,
		entry:    &metadata.TextureEntry{Glow: fd.Glow},
	}
	if fd.Pool != "" {
		pool, err := metadata.ParsePoolType(fd.Pool)
		if err != nil {
			return nil, err
		}
		face.pool = pool
	}
	if fd.Glow < 0 {
		return nil, fmt.Errorf("negative glow %f", fd.Glow)
	}
	if fd.Bump > metadata.TextureEntryBumpMask {
		return nil, fmt.Errorf("bump %d out of range", fd.Bump)
	}
	if fd.Shiny > 3 {
		return nil, fmt.Errorf("shiny %d out of range", fd.Shiny)
	}
	face.entry.SetBumpmap(fd.Bump)
	face.entry.SetShiny(fd.Shiny)
	face.entry.SetFullbright(fd.Fullbright)
	if fd.Planar {
		face.entry.TexGen = 1
	}

	if fd.Texture != "" {
		id, err := uuid.Parse(fd.Texture)
		if err != nil {
			return nil, fmt.Errorf("texture: %v", err)
		}
		face.texture = s.faceTexture(id)
	}

	if fd.Material || fd.Normal != "" || fd.Specular != "" {
		mat := &metadata.Material{}
		var err error
		if fd.Normal != "" {
			if mat.NormalID, err = uuid.Parse(fd.Normal); err != nil {
				return nil, fmt.Errorf("normal map: %v", err)
			}
		}
		if fd.Specular != "" {
			if mat.SpecularID, err = uuid.Parse(fd.Specular); err != nil {
				return nil, fmt.Errorf("specular map: %v", err)
			}
		}
		face.entry.Material = mat
	}
	return face, nil
}

func buildParticles(pd *ParticleDescription) (*metadata.ParticleSystem, error) {
	if pd.BurstRate < 0 || pd.MaxAge < 0 {
		return nil, fmt.Errorf("particle burst rate and max age must not be negative")
	}
	ps := &metadata.ParticleSystem{
		BurstPartCount: pd.BurstCount,
		BurstRate:      pd.BurstRate,
		PartData:       metadata.ParticleData{MaxAge: pd.MaxAge},
	}
	for _, scale := range []struct {
		in  []float32
		out *math.Vec2
	}{
		{pd.StartScale, &ps.PartData.StartScale},
		{pd.EndScale, &ps.PartData.EndScale},
	} {
		if len(scale.in) == 0 {
			continue
		}
		if len(scale.in) != 2 {
			return nil, fmt.Errorf("particle scales need 2 components")
		}
		*scale.out = math.Vec2FromSlice(scale.in)
	}
	return ps, nil
}

func (s *Scene) buildAvatar(ad *AvatarDescription) (*Avatar, error) {
	id, err := parseID(ad.ID, "avatar")
	if err != nil {
		return nil, err
	}
	for _, other := range s.avatars {
		if other.id == id {
			return nil, fmt.Errorf("%w: duplicate avatar %s", core.ErrInvalidScene, id)
		}
	}
	av := &Avatar{
		id:        id,
		name:      ad.Name,
		self:      ad.Self,
		rezStatus: ad.RezStatus,
		reported:  ad.ReportedComplexity,
	}
	if av.rezStatus == "" {
		av.rezStatus = "full"
	}

	for _, att := range ad.Attachments {
		point := cost.AttachmentPoint{Name: att.Point}
		for _, ref := range att.Objects {
			objID, err := uuid.Parse(strings.TrimSpace(ref))
			if err != nil {
				return nil, fmt.Errorf("%w: avatar %s: attachment %q: %v", core.ErrInvalidScene, id, ref, err)
			}
			obj, ok := s.objects[objID]
			if !ok || !obj.IsRootEdit() {
				return nil, fmt.Errorf("%w: avatar %s: attachment %s is not a root object", core.ErrInvalidScene, id, objID)
			}
			if s.attached[objID] {
				return nil, fmt.Errorf("%w: avatar %s: object %s is already worn", core.ErrInvalidScene, id, objID)
			}
			s.attached[objID] = true
			point.Objects = append(point.Objects, obj)
		}
		av.attachments = append(av.attachments, point)
	}
	return av, nil
}

// parseID parses an identifier; an empty one is generated.
func parseID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s id %q: %v", core.ErrInvalidScene, kind, s, err)
	}
	return id, nil
}
