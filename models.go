package botifactory

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Project is a top-level grouping of channels.
type Project struct {
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

// Channel is a named release track within a project.
type Channel struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Release is a versioned binary published on a channel.
type Release struct {
	ID        int64  `json:"id"`
	Version   string `json:"version"`
	Hash      Hash   `json:"hash"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Hash is the content digest of a release binary. On the wire it is a
// JSON array of byte values; a hex string is accepted when decoding.
type Hash []byte

// String returns the lowercase hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h)
}

func (h Hash) MarshalJSON() ([]byte, error) {
	vals := make([]int, len(h))
	for i, b := range h {
		vals[i] = int(b)
	}
	return json.Marshal(vals)
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*h = nil
		return nil

	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("decoding hex hash: %w", err)
		}
		*h = b
		return nil
	}

	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("decoding hash: %w", err)
	}

	out := make(Hash, len(vals))
	for i, v := range vals {
		if v < 0 || v > 255 {
			return fmt.Errorf("hash byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*h = out

	return nil
}

// Wire envelopes.
type (
	projectBody struct {
		Project Project `json:"project"`
	}
	channelBody struct {
		Channel Channel `json:"channel"`
	}
	releaseBody struct {
		Release Release `json:"release"`
	}
)

// CreateProject is the payload posted to create a project.
type CreateProject struct {
	ProjectName string `json:"project_name" validate:"required"`
}

// CreateChannel is the payload posted to create a channel.
type CreateChannel struct {
	ChannelName string `json:"channel_name" validate:"required"`
}

// NewRelease describes a release upload: the version label and the local
// path of the binary to send.
type NewRelease struct {
	Version string `json:"version" validate:"required"`
	Path    string `json:"path" validate:"required"`
}
