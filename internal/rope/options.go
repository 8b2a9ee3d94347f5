package rope

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ropesim/internal/collide"
	"github.com/san-kum/ropesim/internal/pin"
)

type Option func(*Rope)

// WithStartAnchor overrides the configured start anchor.
func WithStartAnchor(p mgl64.Vec3) Option {
	return func(r *Rope) { r.start = &p }
}

func WithEndAnchor(p mgl64.Vec3) Option {
	return func(r *Rope) { r.end = &p }
}

// WithoutAnchors leaves both ends free regardless of the configuration.
func WithoutAnchors() Option {
	return func(r *Rope) { r.start, r.end = nil, nil }
}

func WithAttachments(a ...pin.Attachment) Option {
	return func(r *Rope) { r.attachments = append([]pin.Attachment(nil), a...) }
}

func WithObstacles(src collide.Source) Option {
	return func(r *Rope) { r.source = src }
}

// WithResolver replaces the resolver picked from the collision mode.
func WithResolver(res collide.Resolver) Option {
	return func(r *Rope) { r.resolver = res }
}
