package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wallID   = "5748decc-f629-461c-9a36-a35a221fe21f"
	benchID  = "2f1a7d5e-3c4b-4a6f-9e8d-7c6b5a4f3e2d"
	hatID    = "0e1d2c3b-4a59-4867-9f5e-4d3c2b1a0f9e"
	avatarID = "11111111-2222-4333-8444-555555555555"
)

var plazaScene = fmt.Sprintf(`name = "plaza"

[[textures]]
id = %[1]q
path = "wall.png"

[[objects]]
id = %[2]q
name = "bench"

[[objects.faces]]
texture = %[1]q

[[objects]]
id = %[3]q
name = "hat"

[[objects.faces]]
texture = %[1]q

[[avatars]]
id = %[4]q
name = "Resident"

[[avatars.attachments]]
point = "head"
objects = [%[3]q]
`, wallID, benchID, hatID, avatarID)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	config := DefaultApplicationConfig()
	config.AssetsDir = dir
	config.Workers = 2

	e, err := New(config)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e
}

func plazaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wall.png"), 128, 128)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plaza.toml"), []byte(plazaScene), 0o644))
	return dir
}

func TestEngineEvaluate(t *testing.T) {
	e := newEngine(t, plazaDir(t))

	s, err := e.LoadScene("plaza.toml")
	require.NoError(t, err)

	report, err := e.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, "plaza", report.Scene)
	assert.Equal(t, "v2", report.Version)
	assert.GreaterOrEqual(t, report.ElapsedMS, 0.0)

	// a 128x128 texture costs 256 + 16 * (1 + 1) under v1, plus 5 at full resolution under v2
	require.Len(t, report.Linksets, 1)
	bench := report.Linksets[0]
	assert.Equal(t, benchID, bench.ID)
	assert.Equal(t, "bench", bench.Name)
	assert.Equal(t, float32(20+288), bench.RenderCostV1)
	assert.Equal(t, float32(293), bench.RenderCostV2)
	assert.Equal(t, bench.RenderCostV2, bench.RenderCost)
	require.NotNil(t, bench.FrameData)
	require.Len(t, bench.FrameData.Textures.Diffuse, 1)
	assert.Equal(t, int64(128), bench.FrameData.Textures.Diffuse[0].Width)

	require.Len(t, report.Avatars, 1)
	av := report.Avatars[0]
	assert.Equal(t, "Resident", av.Name)
	assert.Equal(t, uint32(293), av.VisualComplexity)
	assert.Equal(t, 1, av.Attachments)
	require.NotNil(t, av.FrameData)
	assert.Len(t, av.FrameData.Attachments, 1)

	// textures are only registered while a scene is evaluated
	assert.Equal(t, 0, e.TextureSystem().Count())

	_, err = e.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), e.Metrics().Evaluations())
}

func TestEngineEvaluateLegacyVersion(t *testing.T) {
	dir := plazaDir(t)
	config := DefaultApplicationConfig()
	config.AssetsDir = dir
	config.CostVersion = "legacy"

	e, err := New(config)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	s, err := e.LoadScene(filepath.Join(dir, "plaza.toml"))
	require.NoError(t, err)
	report, err := e.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, "v1", report.Version)
	assert.Equal(t, float32(308), report.Linksets[0].RenderCost)
	assert.Equal(t, uint32(308), report.Avatars[0].VisualComplexity)
}

func TestEngineEvaluateUsesProbedFormat(t *testing.T) {
	dir := plazaDir(t)
	// the declared format is overridden by the RGBA image on disk
	declared := strings.Replace(plazaScene, `path = "wall.png"`, "path = \"wall.png\"\nformat = \"alpha\"", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.toml"), []byte(declared), 0o644))

	config := DefaultApplicationConfig()
	config.AssetsDir = dir
	config.CostVersion = "legacy"
	e, err := New(config)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	s, err := e.LoadScene("alpha.toml")
	require.NoError(t, err)
	report, err := e.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, float32(308), report.Linksets[0].RenderCost)
	require.Len(t, report.Linksets[0].FrameData.Prims, 1)
	assert.Zero(t, report.Linksets[0].FrameData.Prims[0].InvisiFaces)
}

func TestEngineRequiresInitialize(t *testing.T) {
	e, err := New(nil)
	require.NoError(t, err)
	defer e.Shutdown()

	_, err = e.LoadScene("plaza.toml")
	assert.ErrorIs(t, err, ErrEngineNotInitialized)
	_, err = e.Evaluate(nil)
	assert.ErrorIs(t, err, ErrEngineNotInitialized)
}

func TestEngineLoadSceneErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("name = \"x\"\n[[objects]]\nid = \"nope\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "typo.yaml"), []byte("name: x\nobjekts: []\n"), 0o644))
	e := newEngine(t, dir)

	_, err := e.LoadScene("broken.toml")
	assert.ErrorIs(t, err, core.ErrInvalidScene)

	_, err = e.LoadScene("typo.yaml")
	assert.Error(t, err)

	_, err = e.LoadScene("missing.toml")
	assert.Error(t, err)

	_, err = e.Evaluate(nil)
	assert.ErrorIs(t, err, core.ErrInvalidScene)
}

func TestEngineWatch(t *testing.T) {
	dir := plazaDir(t)
	e := newEngine(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloaded atomic.Int32
	e.Events().Register(core.EVENT_CODE_TEXTURES_RELOADED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		reloaded.Add(int32(data.Count))
		return true
	})

	reports := make(chan *Report, 16)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, "plaza.toml", func(r *Report, err error) {
			if err == nil {
				reports <- r
			}
		})
	}()

	select {
	case r := <-reports:
		assert.Equal(t, float32(293), r.Linksets[0].RenderCost)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial report")
	}

	// swap the image in place, 256x256 costs 256 + 16 * (2 + 2) + 5
	next := filepath.Join(dir, "next.bin")
	writePNG(t, next, 256, 256)
	require.NoError(t, os.Rename(next, filepath.Join(dir, "wall.png")))

	deadline := time.After(5 * time.Second)
	for updated := false; !updated; {
		select {
		case r := <-reports:
			updated = r.Linksets[0].RenderCost == 325
		case <-deadline:
			t.Fatal("no report after the texture changed")
		}
	}
	assert.GreaterOrEqual(t, reloaded.Load(), int32(1))

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
