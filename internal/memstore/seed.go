package memstore

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// TemplateTask is one task seeded into every newly created user.
type TemplateTask struct {
	Name     string `toml:"name"`
	Category string `toml:"category"`
	Checked  bool   `toml:"checked"`
}

type seedFile struct {
	Tasks []TemplateTask `toml:"tasks"`
	Users []string       `toml:"users"`
}

// Seed is a parsed seed file.
type Seed struct {
	Template []TemplateTask
	// Users are created at startup, in order.
	Users []string
}

func DefaultTemplate() []TemplateTask {
	return []TemplateTask{
		{Name: "Set up workstation", Category: "Onboarding"},
		{Name: "Read the handbook", Category: "Onboarding"},
		{Name: "Book travel", Category: "Logistics"},
		{Name: "Meet the team", Category: "Onboarding"},
		{Name: "Order badge", Category: "Logistics"},
	}
}

// LoadSeed reads a TOML seed file:
//
//	users = ["alice", "bob"]
//
//	[[tasks]]
//	name = "Read the handbook"
//	category = "Onboarding"
func LoadSeed(path string) (Seed, error) {
	var f seedFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Seed{}, fmt.Errorf("seed %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Seed{}, fmt.Errorf("seed %s: unknown keys: %v", path, undec)
	}
	for i, t := range f.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			return Seed{}, fmt.Errorf("seed %s: task %d: missing name", path, i+1)
		}
	}
	out := Seed{Template: f.Tasks, Users: f.Users}
	if len(out.Template) == 0 {
		out.Template = DefaultTemplate()
	}
	return out, nil
}
