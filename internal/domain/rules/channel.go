package rules

import (
	"errors"
	"strings"
)

var ErrUnknownChannel = errors.New("rules: unknown sales channel")

// Channel is a sales surface a nightly price can diverge on.
type Channel string

const (
	ChannelAirbnb  Channel = "airbnb"
	ChannelBooking Channel = "booking"
	ChannelVrbo    Channel = "vrbo"
	ChannelDirect  Channel = "direct"
	// ChannelAll is the wildcard accepted inside a rule's channel set.
	ChannelAll Channel = "all"
)

// SalesChannels lists every concrete channel, wildcard excluded. The
// resolver seeds one price entry per element.
func SalesChannels() []Channel {
	return []Channel{ChannelAirbnb, ChannelBooking, ChannelVrbo, ChannelDirect}
}

func ParseChannel(raw string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(raw))) {
	case ChannelAirbnb:
		return ChannelAirbnb, nil
	case ChannelBooking:
		return ChannelBooking, nil
	case ChannelVrbo:
		return ChannelVrbo, nil
	case ChannelDirect:
		return ChannelDirect, nil
	case ChannelAll:
		return ChannelAll, nil
	}
	return "", ErrUnknownChannel
}

func containsChannel(set []Channel, ch Channel) bool {
	for _, c := range set {
		if c == ch || c == ChannelAll {
			return true
		}
	}
	return false
}
