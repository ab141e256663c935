package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidName      = errors.New("command name must start with " + Prefix)
)

// Registry maps command names to commands and remembers the order they were
// registered in.
type Registry struct {
	order  []Command
	byName map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register appends cmd to the registry. A name that is already taken is
// rejected and the existing command is kept.
func (r *Registry) Register(cmd Command) error {
	name := cmd.Name()
	if !strings.HasPrefix(name, Prefix) || len(name) == len(Prefix) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateCommand)
	}

	r.byName[name] = cmd
	r.order = append(r.order, cmd)
	return nil
}

func (r *Registry) MustRegister(cmds ...Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, len(r.order))
	copy(cmds, r.order)
	return cmds
}
