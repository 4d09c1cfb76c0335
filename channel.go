package eac3

import (
	"strings"

	"github.com/pkg/errors"
)

// Channel is a speaker role a discrete channel is rendered to.
type Channel int

// Speaker roles.
const (
	ChannelUnknown Channel = iota
	FrontLeft
	FrontRight
	FrontCenter
	ScreenLFE
	RearLeft
	RearRight
	SideLeft
	SideRight
	FrontLeftCenter
	FrontRightCenter
	GodsVoice
	TopFrontLeft
	TopFrontCenter
	TopFrontRight
	TopSideLeft
	TopSideRight
	RearCenter
	WideLeft
	WideRight
	SurroundDirectLeft
	SurroundDirectRight
	ScreenLFE2
)

var channelNames = [...]string{
	ChannelUnknown:      "?",
	FrontLeft:           "FL",
	FrontRight:          "FR",
	FrontCenter:         "FC",
	ScreenLFE:           "LFE",
	RearLeft:            "RL",
	RearRight:           "RR",
	SideLeft:            "SL",
	SideRight:           "SR",
	FrontLeftCenter:     "FLC",
	FrontRightCenter:    "FRC",
	GodsVoice:           "TC",
	TopFrontLeft:        "TFL",
	TopFrontCenter:      "TFC",
	TopFrontRight:       "TFR",
	TopSideLeft:         "TSL",
	TopSideRight:        "TSR",
	RearCenter:          "RC",
	WideLeft:            "WL",
	WideRight:           "WR",
	SurroundDirectLeft:  "SDL",
	SurroundDirectRight: "SDR",
	ScreenLFE2:          "LFE2",
}

// String returns the short name of the channel.
func (c Channel) String() string {
	if c >= 0 && int(c) < len(channelNames) {
		return channelNames[c]
	}

	return "?"
}

// ParseChannel returns the channel with the given short name (case insensitive).
func ParseChannel(name string) (Channel, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range channelNames {
		if i != int(ChannelUnknown) && n == name {
			return Channel(i), nil
		}
	}

	return ChannelUnknown, errors.Errorf("unknown channel name %q", name)
}

// ParseLayout parses a comma separated list of channel names.
func ParseLayout(s string) ([]Channel, error) {
	var layout []Channel
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}

		c, err := ParseChannel(name)
		if err != nil {
			return nil, err
		}
		layout = append(layout, c)
	}

	return layout, nil
}
