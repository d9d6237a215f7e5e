package client

import (
	"fmt"
	"io"

	"github.com/mdouchement/medvault/internal/gate"
)

// navigator mounts the gate roots on the terminal.
type navigator struct {
	out     io.Writer
	current *gate.Root
}

func (n *navigator) Mount(root gate.Root) {
	if n.current != nil && *n.current == root {
		return
	}
	n.current = &root

	switch root {
	case gate.RootAuthenticated:
		fmt.Fprintln(n.out, "Signed in. Available commands: records, record show, record add, backup, logout")
	default:
		fmt.Fprintln(n.out, "Not signed in. Available commands: login, register")
	}
}
