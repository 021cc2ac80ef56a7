package domain

import "fmt"

// Channel identifies the upstream source of a case submission. Each channel
// carries its own trust level and validation policy.
type Channel string

const (
	// ChannelSPI is the strict incremental police feed. Validation problems
	// block acceptance and submissions are held pending correction.
	ChannelSPI Channel = "SPI"
	// ChannelCPPI is the bulk prosecution feed. Most blocking conditions
	// demote to warnings and the case proceeds.
	ChannelCPPI Channel = "CPPI"
	// ChannelMCC is the magistrates' court feed.
	ChannelMCC Channel = "MCC"
	// ChannelCivil carries civil submissions.
	ChannelCivil Channel = "CIVIL"
)

// ParseChannel validates and returns a Channel.
func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelSPI, ChannelCPPI, ChannelMCC, ChannelCivil:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown channel: %q", s)
}

// String returns the wire representation of the channel.
func (c Channel) String() string {
	return string(c)
}
