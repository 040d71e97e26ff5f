package version

import (
	"runtime/debug"
)

type Info struct {
	Commit string `json:"commit"`
	Time   string `json:"time"`
}

func (i Info) String() string {
	if i.Commit == "" {
		return "devel"
	}
	return i.Commit + " " + i.Time
}

// Current is read from the vcs stamp of the build.
var Current = func() Info {
	v := Info{}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				v.Commit = setting.Value
			}
			if setting.Key == "vcs.time" {
				v.Time = setting.Value
			}
		}
	}
	return v
}()
