// Package storage keeps generated documents until they are downloaded.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
)

var (
	// ErrNotFound is returned when no artifact has the requested name.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidName is returned for names that are not artifact names, including
	// anything with a path component.
	ErrInvalidName = errors.New("invalid artifact name")
)

// maxNameAttempts bounds how far Save advances the timestamp to find a free name.
const maxNameAttempts = 1000

var artifactName = regexp.MustCompile(`^[a-z]+(?:_[a-z]+)*_\d+\.pdf$`)

// Object is an opened artifact. Size is -1 when unknown.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store saves artifacts under unique names and opens them by name.
type Store interface {
	// Save stores data under a new name of the form {kind}_{unixMillis}.pdf and
	// returns that name. An existing artifact is never overwritten.
	Save(ctx context.Context, kind string, data []byte) (string, error)
	// Open returns the artifact called name.
	Open(ctx context.Context, name string) (*Object, error)
}

// ArtifactName builds the artifact name for kind at a millisecond timestamp.
func ArtifactName(kind string, millis int64) string {
	return fmt.Sprintf("%s_%d.pdf", kind, millis)
}

// ValidName reports whether name is a bare artifact name.
func ValidName(name string) bool {
	return artifactName.MatchString(name)
}

func checkKind(kind string) error {
	if !ValidName(ArtifactName(kind, 0)) {
		return fmt.Errorf("invalid artifact kind %q", kind)
	}
	return nil
}
