package storage

import (
	"context"
	"fmt"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// ResponseObjectName is the object path for one answer chunk.
func ResponseObjectName(sessionID string, questionIndex int, chunkIndex int64) string {
	return fmt.Sprintf("interviews/%s/q%03d/chunk-%05d.pcm", sessionID, questionIndex, chunkIndex)
}
