package core

// ChannelState is the connection state of the push channel.
type ChannelState int

const (
	ChannelDisconnected ChannelState = iota
	ChannelConnecting
	ChannelLive
)

func (s ChannelState) String() string {
	switch s {
	case ChannelConnecting:
		return "connecting"
	case ChannelLive:
		return "live"
	default:
		return "disconnected"
	}
}

// Label is the indicator text shown for the state.
func (s ChannelState) Label() string {
	switch s {
	case ChannelConnecting:
		return "Connecting…"
	case ChannelLive:
		return "Live"
	default:
		return "Offline"
	}
}
