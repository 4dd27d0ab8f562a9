package scene

// Description is the on-disk form of a scene, read from TOML or YAML.
type Description struct {
	Name     string               `toml:"name" yaml:"name" json:"name"`
	Textures []TextureDescription `toml:"textures,omitempty" yaml:"textures,omitempty" json:"textures,omitempty"`
	Objects  []ObjectDescription  `toml:"objects,omitempty" yaml:"objects,omitempty" json:"objects,omitempty"`
	Avatars  []AvatarDescription  `toml:"avatars,omitempty" yaml:"avatars,omitempty" json:"avatars,omitempty"`
}

// TextureDescription declares a fetched texture. When Path is set the
// dimensions are probed from the image on disk.
type TextureDescription struct {
	ID         string `toml:"id" yaml:"id" json:"id"`
	Name       string `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Path       string `toml:"path,omitempty" yaml:"path,omitempty" json:"path,omitempty"`
	Width      uint32 `toml:"width,omitempty" yaml:"width,omitempty" json:"width,omitempty"`
	Height     uint32 `toml:"height,omitempty" yaml:"height,omitempty" json:"height,omitempty"`
	Format     string `toml:"format,omitempty" yaml:"format,omitempty" json:"format,omitempty"`
	Components uint8  `toml:"components,omitempty" yaml:"components,omitempty" json:"components,omitempty"`
	Discard    int32  `toml:"discard" yaml:"discard" json:"discard"`
}

type ObjectDescription struct {
	ID           string               `toml:"id" yaml:"id" json:"id"`
	Name         string               `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	NoGeometry   bool                 `toml:"no_geometry,omitempty" yaml:"no_geometry,omitempty" json:"no_geometry,omitempty"`
	Scale        []float32            `toml:"scale,omitempty" yaml:"scale,omitempty" json:"scale,omitempty"`
	Flexible     bool                 `toml:"flexible,omitempty" yaml:"flexible,omitempty" json:"flexible,omitempty"`
	Mesh         bool                 `toml:"mesh,omitempty" yaml:"mesh,omitempty" json:"mesh,omitempty"`
	Rigged       bool                 `toml:"rigged,omitempty" yaml:"rigged,omitempty" json:"rigged,omitempty"`
	Light        bool                 `toml:"light,omitempty" yaml:"light,omitempty" json:"light,omitempty"`
	Animated     bool                 `toml:"animated,omitempty" yaml:"animated,omitempty" json:"animated,omitempty"`
	HUD          bool                 `toml:"hud,omitempty" yaml:"hud,omitempty" json:"hud,omitempty"`
	Sculpt       string               `toml:"sculpt,omitempty" yaml:"sculpt,omitempty" json:"sculpt,omitempty"`
	LODTriangles []uint32             `toml:"lod_triangles,omitempty" yaml:"lod_triangles,omitempty" json:"lod_triangles,omitempty"`
	LODBytes     []uint32             `toml:"lod_bytes,omitempty" yaml:"lod_bytes,omitempty" json:"lod_bytes,omitempty"`
	Particles    *ParticleDescription `toml:"particles,omitempty" yaml:"particles,omitempty" json:"particles,omitempty"`
	Faces        []FaceDescription    `toml:"faces,omitempty" yaml:"faces,omitempty" json:"faces,omitempty"`
	Children     []ObjectDescription  `toml:"children,omitempty" yaml:"children,omitempty" json:"children,omitempty"`
}

type FaceDescription struct {
	Pool            string  `toml:"pool,omitempty" yaml:"pool,omitempty" json:"pool,omitempty"`
	Texture         string  `toml:"texture,omitempty" yaml:"texture,omitempty" json:"texture,omitempty"`
	Bump            uint8   `toml:"bump,omitempty" yaml:"bump,omitempty" json:"bump,omitempty"`
	Shiny           uint8   `toml:"shiny,omitempty" yaml:"shiny,omitempty" json:"shiny,omitempty"`
	Fullbright      bool    `toml:"fullbright,omitempty" yaml:"fullbright,omitempty" json:"fullbright,omitempty"`
	Glow            float32 `toml:"glow,omitempty" yaml:"glow,omitempty" json:"glow,omitempty"`
	Planar          bool    `toml:"planar,omitempty" yaml:"planar,omitempty" json:"planar,omitempty"`
	AnimatedTexture bool    `toml:"animated_texture,omitempty" yaml:"animated_texture,omitempty" json:"animated_texture,omitempty"`
	Media           bool    `toml:"media,omitempty" yaml:"media,omitempty" json:"media,omitempty"`
	Material        bool    `toml:"material,omitempty" yaml:"material,omitempty" json:"material,omitempty"`
	Normal          string  `toml:"normal,omitempty" yaml:"normal,omitempty" json:"normal,omitempty"`
	Specular        string  `toml:"specular,omitempty" yaml:"specular,omitempty" json:"specular,omitempty"`
}

type ParticleDescription struct {
	BurstCount uint8     `toml:"burst_count" yaml:"burst_count" json:"burst_count"`
	BurstRate  float32   `toml:"burst_rate" yaml:"burst_rate" json:"burst_rate"`
	MaxAge     float32   `toml:"max_age" yaml:"max_age" json:"max_age"`
	StartScale []float32 `toml:"start_scale,omitempty" yaml:"start_scale,omitempty" json:"start_scale,omitempty"`
	EndScale   []float32 `toml:"end_scale,omitempty" yaml:"end_scale,omitempty" json:"end_scale,omitempty"`
}

type AvatarDescription struct {
	ID                 string                  `toml:"id" yaml:"id" json:"id"`
	Name               string                  `toml:"name" yaml:"name" json:"name"`
	Self               bool                    `toml:"self,omitempty" yaml:"self,omitempty" json:"self,omitempty"`
	RezStatus          string                  `toml:"rez_status,omitempty" yaml:"rez_status,omitempty" json:"rez_status,omitempty"`
	ReportedComplexity uint32                  `toml:"reported_complexity,omitempty" yaml:"reported_complexity,omitempty" json:"reported_complexity,omitempty"`
	Attachments        []AttachmentDescription `toml:"attachments,omitempty" yaml:"attachments,omitempty" json:"attachments,omitempty"`
}

// AttachmentDescription lists the root objects worn on one attachment point.
type AttachmentDescription struct {
	Point   string   `toml:"point" yaml:"point" json:"point"`
	Objects []string `toml:"objects,omitempty" yaml:"objects,omitempty" json:"objects,omitempty"`
}
