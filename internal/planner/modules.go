package planner

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Module registry errors, surfaced to the user as inline messages.
var (
	ErrDuplicateName = errors.New("a module with this name already exists")
	ErrEmptyName     = errors.New("module name cannot be empty")
)

// ModuleInfo holds the metadata of one course/module. The registry key is
// the display name; names are immutable (rename = delete + recreate).
type ModuleInfo struct {
	Color   string    `json:"color"`
	Teacher string    `json:"teacher"`
	Rooms   []string  `json:"rooms"`
	Created time.Time `json:"created"`
}

// ModuleRegistry owns the course/module metadata backing the timetable.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]ModuleInfo
	gw      *Gateway
	now     func() time.Time
}

// NewModuleRegistry loads the registry and seeds the built-in default
// module when it is empty, so the timetable always has at least one
// selectable module.
func NewModuleRegistry(gw *Gateway) (*ModuleRegistry, error) {
	r := &ModuleRegistry{modules: map[string]ModuleInfo{}, gw: gw, now: time.Now}
	if err := gw.Load(ModulesFile, &r.modules); err != nil {
		return nil, err
	}
	if r.modules == nil {
		r.modules = map[string]ModuleInfo{}
	}

	if len(r.modules) == 0 {
		r.modules[DefaultModuleName] = ModuleInfo{
			Color:   DefaultModuleColor,
			Teacher: DefaultTeacher,
			Rooms:   []string{DefaultRoom},
			Created: r.now(),
		}
		if err := gw.Save(ModulesFile, r.modules); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// List returns a copy of the registry keyed by module name.
func (r *ModuleRegistry) List() map[string]ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]ModuleInfo, len(r.modules))
	for name, info := range r.modules {
		out[name] = copyModule(info)
	}
	return out
}

// Get looks up one module by name.
func (r *ModuleRegistry) Get(name string) (ModuleInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.modules[name]
	if !ok {
		return ModuleInfo{}, false
	}
	return copyModule(info), true
}

// Add inserts a new module. The name is trimmed; an empty or duplicate
// name is rejected with no state change. Missing attributes fall back to
// the registry defaults.
func (r *ModuleRegistry) Add(name, teacher string, rooms []string, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[name]; exists {
		return ErrDuplicateName
	}

	if strings.TrimSpace(teacher) == "" {
		teacher = DefaultTeacher
	}
	if len(rooms) == 0 {
		rooms = []string{DefaultRoom}
	}
	if strings.TrimSpace(color) == "" {
		color = DefaultModuleColor
	}

	copied := make([]string, len(rooms))
	copy(copied, rooms)
	r.modules[name] = ModuleInfo{
		Color:   color,
		Teacher: teacher,
		Rooms:   copied,
		Created: r.now(),
	}

	return r.gw.Save(ModulesFile, r.modules)
}

// Delete removes a module if present; deleting an unknown name is a no-op.
func (r *ModuleRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[name]; !exists {
		return nil
	}
	delete(r.modules, name)
	return r.gw.Save(ModulesFile, r.modules)
}

func copyModule(info ModuleInfo) ModuleInfo {
	rooms := make([]string, len(info.Rooms))
	copy(rooms, info.Rooms)
	info.Rooms = rooms
	return info
}
