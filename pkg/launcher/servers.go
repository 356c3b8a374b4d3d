package launcher

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ServerEntry is one saved sign server. Only the name and address are
// stored, never credentials.
type ServerEntry struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	LastUsed int64  `yaml:"last_used,omitempty"`
}

// ServerList manages the saved server directory, persisted as YAML next
// to the binary.
type ServerList struct {
	path    string
	Servers []ServerEntry `yaml:"servers"`
}

// NewServerList creates a list stored next to the binary.
func NewServerList() *ServerList {
	exe, err := os.Executable()
	if err != nil {
		return &ServerList{path: "servers.yaml"}
	}
	return &ServerList{path: filepath.Join(filepath.Dir(exe), "servers.yaml")}
}

// NewServerListAt creates a list stored at an explicit path.
func NewServerListAt(path string) *ServerList {
	return &ServerList{path: path}
}

// Load reads the list from disk. A missing file is an empty list.
func (l *ServerList) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, l)
}

// Save writes the list to disk, most recently used first.
func (l *ServerList) Save() error {
	sort.SliceStable(l.Servers, func(i, j int) bool {
		return l.Servers[i].LastUsed > l.Servers[j].LastUsed
	})
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0600)
}

// Add inserts or updates an entry keyed by name. It reports whether the
// entry is new.
func (l *ServerList) Add(e ServerEntry) bool {
	for i := range l.Servers {
		if l.Servers[i].Name == e.Name {
			l.Servers[i] = e
			return false
		}
	}
	l.Servers = append(l.Servers, e)
	return true
}

// Remove deletes the entry with the given name.
func (l *ServerList) Remove(name string) bool {
	for i := range l.Servers {
		if l.Servers[i].Name == name {
			l.Servers = append(l.Servers[:i], l.Servers[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the entry with the given name.
func (l *ServerList) Find(name string) (ServerEntry, bool) {
	for _, e := range l.Servers {
		if e.Name == name {
			return e, true
		}
	}
	return ServerEntry{}, false
}

// Touch updates the last-used timestamp of the entry with the given URL.
func (l *ServerList) Touch(url string, ts int64) bool {
	for i := range l.Servers {
		if l.Servers[i].URL == url {
			l.Servers[i].LastUsed = ts
			return true
		}
	}
	return false
}
