// Package api defines the clipmgr control protocol: the request and response
// messages of the HistoryService and the JSON codec they travel in.
//
// Messages are plain Go structs marshalled with encoding/json. The codec is
// registered with gRPC under the "json" content-subtype, so clients select it
// with grpc.CallContentSubtype(CodecName) and servers pick it up from the
// content-type header without extra options.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc/encoding"

	"go.klb.dev/clipmgr/internal/menu"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec is a gRPC codec that marshals messages as JSON.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal: %w", err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal: %w", err)
	}
	return nil
}

// Entry is one history entry together with its position (0 = newest).
type Entry struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Entries numbers texts from 0 in the order given.
func Entries(texts []string) []Entry {
	out := make([]Entry, len(texts))
	for i, t := range texts {
		out[i] = Entry{Index: i, Text: t}
	}
	return out
}

// ListRequest asks for the newest Limit entries; Limit <= 0 means all.
type ListRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListResponse struct {
	Entries  []Entry `json:"entries"`
	Total    int     `json:"total"`
	Capacity int     `json:"capacity"`
}

type MenuRequest struct{}

type MenuResponse struct {
	Menu menu.Menu `json:"menu"`
}

// CopyRequest puts the entry at Index back on the clipboard. When Text is set
// the entry at Index must hold it, otherwise the call fails with
// FailedPrecondition and nothing is copied.
type CopyRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
}

type CopyResponse struct {
	Entry Entry `json:"entry"`
}

// RemoveRequest deletes the entry at Index. Text works as in CopyRequest.
type RemoveRequest struct {
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
}

type RemoveResponse struct {
	Entry Entry `json:"entry"`
}

type StatusRequest struct{}

type StatusResponse struct {
	Version   string        `json:"version"`
	Backend   string        `json:"backend"`
	Entries   int           `json:"entries"`
	Capacity  int           `json:"capacity"`
	MenuSize  int           `json:"menu_size"`
	Interval  time.Duration `json:"interval"`
	StartedAt time.Time     `json:"started_at"`
}

type QuitRequest struct{}

type QuitResponse struct{}

// WatchRequest subscribes to history changes. Limit works as in ListRequest.
type WatchRequest struct {
	Limit int `json:"limit,omitempty"`
}

// WatchResponse is a full snapshot of the history, sent on subscribe and
// after every change.
type WatchResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}
