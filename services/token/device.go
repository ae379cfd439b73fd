package token

import (
	"strings"

	"github.com/mileusna/useragent"
)

// DeviceParser turns a raw user agent and remote IP into a DeviceInfo.
// It is injectable so tests can feed canned descriptors.
type DeviceParser func(userAgent, ipAddress string) DeviceInfo

func ParseDeviceInfo(userAgentString, ipAddress string) DeviceInfo {
	info := DeviceInfo{
		UserAgent:  userAgentString,
		IPAddress:  ipAddress,
		Browser:    "Unknown",
		OS:         "Unknown",
		DeviceType: "desktop",
	}

	if userAgentString == "" {
		info.UserAgent = "unknown"
		info.DeviceType = "unknown"
		return info
	}

	ua := useragent.Parse(userAgentString)

	if ua.Name != "" {
		info.Browser = strings.TrimSpace(ua.Name + " " + ua.Version)
	}
	if ua.OS != "" {
		info.OS = strings.TrimSpace(ua.OS + " " + ua.OSVersion)
	}

	switch {
	case ua.Mobile:
		info.DeviceType = "mobile"
	case ua.Tablet:
		info.DeviceType = "tablet"
	case ua.Bot:
		info.DeviceType = "bot"
	}

	return info
}

// merge overlays freshly supplied fields onto a stored descriptor without
// replacing it wholesale.
func (d DeviceInfo) merge(fresh DeviceInfo) DeviceInfo {
	out := d
	if fresh.UserAgent != "" && fresh.UserAgent != "unknown" {
		out.UserAgent = fresh.UserAgent
		out.Browser = fresh.Browser
		out.OS = fresh.OS
		out.DeviceType = fresh.DeviceType
	}
	if fresh.IPAddress != "" {
		out.IPAddress = fresh.IPAddress
	}
	return out
}
