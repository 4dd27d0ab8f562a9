package cost

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// TextureInfo describes one referenced texture. Every field but the
// identifier and use is -1 when the texture could not be resolved.
type TextureInfo struct {
	ID         string `json:"id" yaml:"id" toml:"id"`
	Use        string `json:"use" yaml:"use" toml:"use"`
	Width      int64  `json:"width" yaml:"width" toml:"width"`
	Height     int64  `json:"height" yaml:"height" toml:"height"`
	Format     string `json:"format" yaml:"format" toml:"format"`
	Components int64  `json:"components" yaml:"components" toml:"components"`
	Discard    int64  `json:"discard" yaml:"discard" toml:"discard"`
}

// unresolvedFormat keeps the -1 marker of the numeric fields.
const unresolvedFormat = "-1"

type TextureCounts struct {
	Diffuse  int `json:"diffuse" yaml:"diffuse" toml:"diffuse"`
	Sculpt   int `json:"sculpt" yaml:"sculpt" toml:"sculpt"`
	Normal   int `json:"normal" yaml:"normal" toml:"normal"`
	Specular int `json:"specular" yaml:"specular" toml:"specular"`
}

type TextureDetails struct {
	Diffuse  []TextureInfo `json:"diffuse" yaml:"diffuse" toml:"diffuse"`
	Sculpt   []TextureInfo `json:"sculpt" yaml:"sculpt" toml:"sculpt"`
	Normal   []TextureInfo `json:"normal" yaml:"normal" toml:"normal"`
	Specular []TextureInfo `json:"specular" yaml:"specular" toml:"specular"`
}

// LinksetSummary aggregates the revised costs of a whole linkset.
type LinksetSummary struct {
	NumTrianglesV2  uint32        `json:"num_triangles_v2" yaml:"num_triangles_v2" toml:"num_triangles_v2"`
	TriangleCostsV2 float32       `json:"triangle_costs_v2" yaml:"triangle_costs_v2" toml:"triangle_costs_v2"`
	TextureCostsV2  float32       `json:"texture_costs_v2" yaml:"texture_costs_v2" toml:"texture_costs_v2"`
	PrimCount       int           `json:"prim_count" yaml:"prim_count" toml:"prim_count"`
	TextureCount    TextureCounts `json:"texture_count" yaml:"texture_count" toml:"texture_count"`
}

// LinksetFrameData is the diagnostic snapshot of one linkset.
type LinksetFrameData struct {
	ID       string          `json:"id" yaml:"id" toml:"id"`
	Prims    []*PrimCostData `json:"prims" yaml:"prims" toml:"prims"`
	Summary  LinksetSummary  `json:"linkset_cost_summary" yaml:"linkset_cost_summary" toml:"linkset_cost_summary"`
	Textures TextureDetails  `json:"textures" yaml:"textures" toml:"textures"`
}

type AvatarSummary struct {
	NumTrianglesV2  uint32  `json:"num_triangles_v2" yaml:"num_triangles_v2" toml:"num_triangles_v2"`
	TriangleCostsV2 float32 `json:"triangle_costs_v2" yaml:"triangle_costs_v2" toml:"triangle_costs_v2"`
	TextureCostsV2  float32 `json:"texture_costs_v2" yaml:"texture_costs_v2" toml:"texture_costs_v2"`
	AttachmentCount int     `json:"attachment_count" yaml:"attachment_count" toml:"attachment_count"`
}

// AvatarFrameData is the diagnostic snapshot of one avatar.
type AvatarFrameData struct {
	Name          string              `json:"name" yaml:"name" toml:"name"`
	Self          bool                `json:"self" yaml:"self" toml:"self"`
	UUID          string              `json:"uuid" yaml:"uuid" toml:"uuid"`
	RezStatus     string              `json:"rez_status" yaml:"rez_status" toml:"rez_status"`
	ARCCalculated uint32              `json:"arc_calculated" yaml:"arc_calculated" toml:"arc_calculated"`
	ARCV1         uint32              `json:"arc_calculated_v1" yaml:"arc_calculated_v1" toml:"arc_calculated_v1"`
	ARCV2         uint32              `json:"arc_calculated_v2" yaml:"arc_calculated_v2" toml:"arc_calculated_v2"`
	ARCReported   uint32              `json:"arc_reported" yaml:"arc_reported" toml:"arc_reported"`
	Attachments   []*LinksetFrameData `json:"attachments" yaml:"attachments" toml:"attachments"`
	Summary       AvatarSummary       `json:"av_cost_summary" yaml:"av_cost_summary" toml:"av_cost_summary"`
}

// FrameDataPrim snapshots the collected data of a single object.
func (e *Estimator) FrameDataPrim(vol Volume) *PrimCostData {
	return CollectPrimCostData(vol, e.textures)
}

/**
 * @brief Snapshots every member of a linkset together with the revised
 * cost summary and the textures the linkset references.
 * @return Nil if root is not the root of its linkset.
 */
func (e *Estimator) FrameDataLinkset(root Volume) *LinksetFrameData {
	volumes := linksetVolumes(root)
	if len(volumes) == 0 {
		return nil
	}

	fd := &LinksetFrameData{
		ID:    root.ID().String(),
		Prims: make([]*PrimCostData, 0, len(volumes)),
	}
	sets := NewTextureSets()
	for _, vol := range volumes {
		cd := CollectPrimCostData(vol, e.textures)
		fd.Prims = append(fd.Prims, cd)
		sets.Merge(&cd.Textures)

		fd.Summary.NumTrianglesV2 += cd.NumTrianglesV2
		fd.Summary.TriangleCostsV2 += triangleCostsV2(cd)
		fd.Summary.PrimCount++
	}
	fd.Summary.TextureCostsV2 = float32(textureSetCostsV2(e.textures, &sets))
	fd.Summary.TextureCount = TextureCounts{
		Diffuse:  len(sets.Diffuse),
		Sculpt:   len(sets.Sculpt),
		Normal:   len(sets.Normal),
		Specular: len(sets.Specular),
	}
	fd.Textures = TextureDetails{
		Diffuse:  e.textureInfos(&sets, metadata.TextureUseMapDiffuse),
		Sculpt:   e.textureInfos(&sets, metadata.TextureUseSculpt),
		Normal:   e.textureInfos(&sets, metadata.TextureUseMapNormal),
		Specular: e.textureInfos(&sets, metadata.TextureUseMapSpecular),
	}
	return fd
}

// FrameDataAvatar snapshots every non HUD attachment of an avatar.
func (e *Estimator) FrameDataAvatar(av Avatar) *AvatarFrameData {
	if av == nil {
		return nil
	}
	fd := &AvatarFrameData{
		Name:          av.Name(),
		Self:          av.IsSelf(),
		UUID:          av.ID().String(),
		RezStatus:     av.RezStatus(),
		ARCCalculated: e.AvatarRenderCost(VersionCurrent, av).VisualComplexity(),
		ARCV1:         e.AvatarRenderCost(VersionLegacy, av).VisualComplexity(),
		ARCV2:         e.AvatarRenderCost(VersionRevised, av).VisualComplexity(),
		ARCReported:   av.ReportedComplexity(),
		Attachments:   []*LinksetFrameData{},
	}
	for _, point := range av.AttachmentPoints() {
		for _, obj := range point.Objects {
			if obj == nil || obj.IsHUDAttachment() {
				continue
			}
			fd.Summary.AttachmentCount++
			linkset := e.FrameDataLinkset(obj)
			if linkset == nil {
				continue
			}
			fd.Attachments = append(fd.Attachments, linkset)
			fd.Summary.NumTrianglesV2 += linkset.Summary.NumTrianglesV2
			fd.Summary.TriangleCostsV2 += linkset.Summary.TriangleCostsV2
			fd.Summary.TextureCostsV2 += linkset.Summary.TextureCostsV2
		}
	}
	return fd
}

func (e *Estimator) textureInfos(sets *TextureSets, use metadata.TextureUse) []TextureInfo {
	ids := sets.ByUse(use)
	infos := make([]TextureInfo, 0, len(ids))
	for _, id := range ids.Sorted() {
		infos = append(infos, e.textureInfo(id, use))
	}
	return infos
}

func (e *Estimator) textureInfo(id uuid.UUID, use metadata.TextureUse) TextureInfo {
	tex, ok := e.textures.Texture(id)
	if !ok || tex == nil {
		return TextureInfo{
			ID:         id.String(),
			Use:        use.String(),
			Width:      -1,
			Height:     -1,
			Format:     unresolvedFormat,
			Components: -1,
			Discard:    -1,
		}
	}
	return TextureInfo{
		ID:         id.String(),
		Use:        use.String(),
		Width:      int64(tex.Width),
		Height:     int64(tex.Height),
		Format:     tex.Format.String(),
		Components: int64(tex.ChannelCount),
		Discard:    int64(tex.DiscardLevel),
	}
}
