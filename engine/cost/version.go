package cost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spaghettifunk/rendercost/engine/core"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

// Version selects the scoring algorithm of a query.
type Version uint32

const (
	/** @brief Use the estimator's configured default. */
	VersionCurrent Version = 0
	/** @brief The legacy formula. */
	VersionLegacy Version = 1
	/** @brief The revised formula. */
	VersionRevised Version = 2
)

// DefaultVersion is what VersionCurrent resolves to when nothing else is configured.
const DefaultVersion = VersionRevised

func (v Version) String() string {
	switch v {
	case VersionCurrent:
		return "current"
	case VersionLegacy:
		return "v1"
	case VersionRevised:
		return "v2"
	default:
		return fmt.Sprintf("v%d", uint32(v))
	}
}

// Known reports whether the version is VersionCurrent or has a formula.
func (v Version) Known() bool {
	if v == VersionCurrent {
		return true
	}
	_, ok := strategies[v]
	return ok
}

// ParseVersion accepts "current", "v1", "v2", "legacy", "revised" or a plain number.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current", "default":
		return VersionCurrent, nil
	case "legacy", "v1":
		return VersionLegacy, nil
	case "revised", "v2":
		return VersionRevised, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "v"), 10, 32)
	if err != nil {
		return VersionCurrent, fmt.Errorf("%w: %q", core.ErrUnrecognizedVersion, s)
	}
	v := Version(n)
	if !v.Known() {
		return v, fmt.Errorf("%w: %d", core.ErrUnrecognizedVersion, n)
	}
	return v, nil
}

// Config is owned by the calling application and shared by reference with
// the estimator. DefaultVersion is read once at the start of every query.
type Config struct {
	DefaultVersion Version
	// TriangleBudget normalises the radius based streaming cost.
	TriangleBudget uint32
}

func DefaultConfig() *Config {
	return &Config{
		DefaultVersion: DefaultVersion,
		TriangleBudget: metadata.MeshTriangleBudget,
	}
}
