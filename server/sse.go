package server

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/salespilot/salespilot/sessions"
)

// GinSSEWriter writes transcript snapshots as SSE frames on a Gin context
type GinSSEWriter struct {
	Context *gin.Context
}

// WriteSnapshot sends the full transcript as one SSE message frame.
func (w *GinSSEWriter) WriteSnapshot(snapshot sessions.Snapshot) error {
	data, err := json.Marshal(snapshotResponse(snapshot))
	if err != nil {
		return err
	}
	w.Context.SSEvent("message", string(data))
	w.Context.Writer.Flush()
	return nil
}

// WriteDone signals the end of the stream.
func (w *GinSSEWriter) WriteDone() {
	w.Context.SSEvent("done", "")
	w.Context.Writer.Flush()
}

// WriteSSEError sends an error frame.
func (w *GinSSEWriter) WriteSSEError(err error) {
	w.Context.SSEvent("error", err.Error())
	w.Context.Writer.Flush()
}
