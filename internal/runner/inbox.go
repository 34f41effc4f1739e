package runner

import (
	"context"
	"strings"
)

// Inbox yields the addresses that asked to unsubscribe since the last run.
type Inbox interface {
	Unsubscribes(ctx context.Context) ([]string, error)
}

// StaticInbox returns a fixed list, e.g. addresses given on the command line.
type StaticInbox []string

func (s StaticInbox) Unsubscribes(context.Context) ([]string, error) {
	out := make([]string, 0, len(s))
	for _, e := range s {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out, nil
}
