package sysinfo

import (
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// User is one logged-in user as reported by the host.
type User struct {
	Name     string    `json:"name"`
	Terminal string    `json:"terminal,omitempty"`
	Host     string    `json:"host,omitempty"`
	Started  time.Time `json:"started"`
}

// Host is the machine context attached to status responses.
type Host struct {
	Hostname      string    `json:"hostname"`
	OS            string    `json:"os"`
	Platform      string    `json:"platform"`
	UptimeSeconds uint64    `json:"uptimeSeconds"`
	BootTime      time.Time `json:"bootTime"`
	Users         []User    `json:"users,omitempty"`
}

// Collect gathers the host snapshot. A failure to enumerate logged-in
// users is not fatal; the user list is simply omitted.
func Collect() (Host, error) {
	info, err := host.Info()
	if err != nil {
		return Host{}, err
	}

	h := Host{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform,
		UptimeSeconds: info.Uptime,
		BootTime:      time.Unix(int64(info.BootTime), 0),
	}

	if users, err := host.Users(); err == nil {
		for _, u := range users {
			h.Users = append(h.Users, User{
				Name:     u.User,
				Terminal: u.Terminal,
				Host:     u.Host,
				Started:  time.Unix(int64(u.Started), 0),
			})
		}
	}

	return h, nil
}
