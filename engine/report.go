package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"gopkg.in/yaml.v3"
)

// Report is the result of evaluating a whole scene.
type Report struct {
	Scene     string           `json:"scene" yaml:"scene" toml:"scene"`
	Version   string           `json:"version" yaml:"version" toml:"version"`
	ElapsedMS float64          `json:"elapsed_ms" yaml:"elapsed_ms" toml:"elapsed_ms"`
	AverageMS float64          `json:"average_ms" yaml:"average_ms" toml:"average_ms"`
	Avatars   []*AvatarReport  `json:"avatars" yaml:"avatars" toml:"avatars"`
	Linksets  []*LinksetReport `json:"linksets" yaml:"linksets" toml:"linksets"`
}

// LinksetReport scores a linkset no avatar wears.
type LinksetReport struct {
	ID            string                 `json:"id" yaml:"id" toml:"id"`
	Name          string                 `json:"name" yaml:"name" toml:"name"`
	RenderCost    float32                `json:"render_cost" yaml:"render_cost" toml:"render_cost"`
	RenderCostV1  float32                `json:"render_cost_v1" yaml:"render_cost_v1" toml:"render_cost_v1"`
	RenderCostV2  float32                `json:"render_cost_v2" yaml:"render_cost_v2" toml:"render_cost_v2"`
	StreamingCost float32                `json:"streaming_cost" yaml:"streaming_cost" toml:"streaming_cost"`
	FrameData     *cost.LinksetFrameData `json:"frame_data" yaml:"frame_data" toml:"frame_data"`
}

type AvatarReport struct {
	ID               string                `json:"id" yaml:"id" toml:"id"`
	Name             string                `json:"name" yaml:"name" toml:"name"`
	VisualComplexity uint32                `json:"visual_complexity" yaml:"visual_complexity" toml:"visual_complexity"`
	Attachments      int                   `json:"attachments" yaml:"attachments" toml:"attachments"`
	FrameData        *cost.AvatarFrameData `json:"frame_data" yaml:"frame_data" toml:"frame_data"`
}

// setElapsed stores the run time and the engine's rolling average.
func (r *Report) setElapsed(d, avg time.Duration) {
	r.ElapsedMS = float64(d.Microseconds()) / 1000
	r.AverageMS = float64(avg.Microseconds()) / 1000
}

// Elapsed is how long the evaluation took.
func (r *Report) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMS * float64(time.Millisecond))
}

// Average is the mean evaluation time of the engine that produced the report.
func (r *Report) Average() time.Duration {
	return time.Duration(r.AverageMS * float64(time.Millisecond))
}

// ReportFormat is a machine readable encoding of a Report.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatYAML ReportFormat = "yaml"
	ReportFormatTOML ReportFormat = "toml"
)

func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportFormatJSON, ReportFormatYAML, ReportFormatTOML:
		return f, nil
	case "yml":
		return ReportFormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

/**
 * @brief Writes any report value in the given format.
 * @param w The destination.
 * @param v The report, or one of its parts.
 * @param format One of the ReportFormat values.
 */
func Encode(w io.Writer, v interface{}, format ReportFormat) error {
	switch format {
	case ReportFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case ReportFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case ReportFormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
