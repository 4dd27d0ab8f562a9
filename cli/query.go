package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine"
	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/scene"
	"github.com/spf13/cobra"
)

// PrimResult is the machine readable output of the prim command.
type PrimResult struct {
	ID              string             `json:"id" yaml:"id" toml:"id"`
	Name            string             `json:"name" yaml:"name" toml:"name"`
	Version         string             `json:"version" yaml:"version" toml:"version"`
	RenderCost      float32            `json:"render_cost" yaml:"render_cost" toml:"render_cost"`
	RenderCostV1    float32            `json:"render_cost_v1" yaml:"render_cost_v1" toml:"render_cost_v1"`
	RenderCostV2    float32            `json:"render_cost_v2" yaml:"render_cost_v2" toml:"render_cost_v2"`
	StreamingCost   float32            `json:"streaming_cost" yaml:"streaming_cost" toml:"streaming_cost"`
	StreamingCostV1 float32            `json:"streaming_cost_v1" yaml:"streaming_cost_v1" toml:"streaming_cost_v1"`
	StreamingCostV2 float32            `json:"streaming_cost_v2" yaml:"streaming_cost_v2" toml:"streaming_cost_v2"`
	Data            *cost.PrimCostData `json:"data" yaml:"data" toml:"data"`
}

// AvatarList is the machine readable output of the avatar command.
type AvatarList struct {
	Version string                 `json:"version" yaml:"version" toml:"version"`
	Avatars []*engine.AvatarReport `json:"avatars" yaml:"avatars" toml:"avatars"`
}

func newPrimCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "prim <scene> <object-id>",
		Short: "Render and streaming cost of a single object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			eng, s, release, err := a.openScene(args[0])
			if err != nil {
				return err
			}
			defer release()

			obj, err := lookupObject(s, args[1])
			if err != nil {
				return err
			}
			est := eng.Estimator()
			res := &PrimResult{
				ID:              obj.ID().String(),
				Name:            obj.Name(),
				Version:         est.CurrentVersion().String(),
				RenderCost:      est.RenderCost(cost.VersionCurrent, obj),
				RenderCostV1:    est.RenderCost(cost.VersionLegacy, obj),
				RenderCostV2:    est.RenderCost(cost.VersionRevised, obj),
				StreamingCost:   est.StreamingCost(cost.VersionCurrent, obj),
				StreamingCostV1: est.StreamingCost(cost.VersionLegacy, obj),
				StreamingCostV2: est.StreamingCost(cost.VersionRevised, obj),
				Data:            est.FrameDataPrim(obj),
			}

			out := cmd.OutOrStdout()
			if f != "" {
				return engine.Encode(out, res, f)
			}
			fmt.Fprintln(out, Title.Render(fmt.Sprintf("Object %s", displayName(res.Name, res.ID))))
			t := newTable(1, "Version", "Render cost", "Streaming cost")
			t.Row(fmt.Sprintf("current (%s)", res.Version), formatCost(res.RenderCost), formatCost(res.StreamingCost))
			t.Row("v1", formatCost(res.RenderCostV1), formatCost(res.StreamingCostV1))
			t.Row("v2", formatCost(res.RenderCostV2), formatCost(res.StreamingCostV2))
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml or toml")
	return cmd
}

func newLinksetCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "linkset <scene> <root-id>",
		Short: "Render cost of a linkset, the root object and its children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			eng, s, release, err := a.openScene(args[0])
			if err != nil {
				return err
			}
			defer release()

			root, err := lookupObject(s, args[1])
			if err != nil {
				return err
			}
			if !root.IsRootEdit() {
				return fmt.Errorf("%w: %s", core.ErrNotRootEdit, root.ID())
			}
			est := eng.Estimator()
			res := &engine.LinksetReport{
				ID:            root.ID().String(),
				Name:          root.Name(),
				RenderCost:    est.RenderCostLinkset(cost.VersionCurrent, root),
				RenderCostV1:  est.RenderCostLinkset(cost.VersionLegacy, root),
				RenderCostV2:  est.RenderCostLinkset(cost.VersionRevised, root),
				StreamingCost: est.StreamingCostLinkset(cost.VersionCurrent, root),
				FrameData:     est.FrameDataLinkset(root),
			}

			out := cmd.OutOrStdout()
			if f != "" {
				return engine.Encode(out, res, f)
			}
			renderLinksets(out, []*engine.LinksetReport{res})
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml or toml")
	return cmd
}

func newAvatarCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "avatar <scene> [avatar-id]",
		Short: "Avatar render cost and attachment count, for one or every avatar",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			eng, s, release, err := a.openScene(args[0])
			if err != nil {
				return err
			}
			defer release()

			avatars := s.Avatars()
			if len(args) == 2 {
				id, err := uuid.Parse(args[1])
				if err != nil {
					return fmt.Errorf("%w: %q", core.ErrUnknownAvatar, args[1])
				}
				av, err := s.Avatar(id)
				if err != nil {
					return err
				}
				avatars = []*scene.Avatar{av}
			}

			est := eng.Estimator()
			list := &AvatarList{Version: est.CurrentVersion().String()}
			for _, av := range avatars {
				ac := est.AvatarRenderCost(cost.VersionCurrent, av)
				list.Avatars = append(list.Avatars, &engine.AvatarReport{
					ID:               av.ID().String(),
					Name:             av.Name(),
					VisualComplexity: ac.VisualComplexity(),
					Attachments:      ac.AttachmentCount,
					FrameData:        est.FrameDataAvatar(av),
				})
			}

			out := cmd.OutOrStdout()
			if f != "" {
				return engine.Encode(out, list, f)
			}
			t := newTable(2, "Avatar", "ID", "Complexity", "v1", "v2", "Attachments")
			for _, av := range list.Avatars {
				fd := av.FrameData
				t.Row(av.Name, av.ID, fmt.Sprint(av.VisualComplexity), fmt.Sprint(fd.ARCV1), fmt.Sprint(fd.ARCV2), fmt.Sprint(av.Attachments))
			}
			fmt.Fprintln(out, Subtitle.Render(fmt.Sprintf("cost version %s", list.Version)))
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml or toml")
	return cmd
}

func lookupObject(s *scene.Scene, ref string) (*scene.Object, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownObject, ref)
	}
	return s.Object(id)
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
