// Package syncproto implements the challenge/response protocol external
// agents use to report review, price and scan results back to the service.
package syncproto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Channel identifies one asynchronous confirmation channel.
type Channel string

const (
	ChannelReview Channel = "review"
	ChannelPrice  Channel = "price"
	ChannelScan   Channel = "scan"
)

const (
	// DefaultNonceBytes is the amount of randomness in a nonce.
	DefaultNonceBytes = 16

	minNonceBytes = 8
)

var channelPrefixes = map[Channel]string{
	ChannelReview: "rv_",
	ChannelPrice:  "pr_",
	ChannelScan:   "sc_",
}

// Prefix returns the token prefix of the channel.
func (c Channel) Prefix() string {
	return channelPrefixes[c]
}

// NewNonce creates an unguessable token for a channel.
func NewNonce(c Channel, size int) (string, error) {
	prefix, ok := channelPrefixes[c]
	if !ok {
		return "", fmt.Errorf("unknown sync channel %q", c)
	}
	if size < minNonceBytes {
		size = DefaultNonceBytes
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return prefix + hex.EncodeToString(buf), nil
}

// HasPrefix reports whether token carries the channel's prefix.
func (c Channel) HasPrefix(token string) bool {
	prefix := c.Prefix()
	return prefix != "" && strings.HasPrefix(token, prefix)
}
