package rope

import (
	"errors"
	"fmt"

	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/config"
)

var (
	// ErrSegments indicates fewer than two chain points.
	ErrSegments = errors.New("ropesim: rope needs at least two points")

	// ErrLength indicates a non-positive rest length or radius.
	ErrLength = errors.New("ropesim: length must be positive")

	// ErrRadialSegments indicates a tube cross-section with fewer than three sides.
	ErrRadialSegments = errors.New("ropesim: tube needs at least three radial segments")

	// ErrCollisionMode indicates an unknown collision resolver name.
	ErrCollisionMode = errors.New("ropesim: unknown collision mode")

	// ErrOutOfRange indicates a setting outside its valid bounds.
	ErrOutOfRange = errors.New("ropesim: parameter out of valid bounds")

	// ErrUnstable indicates the chain went non-finite and was laid out again.
	ErrUnstable = errors.New("ropesim: simulation unstable (chain reset)")
)

// Validate reports every setting that New would clamp or replace. A nil
// result means the configuration is used as given.
func Validate(cfg *config.Config) error {
	var errs []error
	for _, path := range cfg.Clone().Clamp() {
		errs = append(errs, fmt.Errorf("%w: %s", sentinelFor(path), path))
	}
	if _, err := collide.New(collide.Mode(cfg.Collision.Mode), collide.Params{}); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrCollisionMode, cfg.Collision.Mode))
	}
	return errors.Join(errs...)
}

func sentinelFor(path string) error {
	switch path {
	case "rope.segments":
		return ErrSegments
	case "rope.rest_length", "collision.radius", "tube.radius":
		return ErrLength
	case "tube.radial_segments":
		return ErrRadialSegments
	default:
		return ErrOutOfRange
	}
}
