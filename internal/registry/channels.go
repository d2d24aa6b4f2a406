package registry

import (
	"fmt"
	"strings"
)

// Channel is implemented by InputSignal and OutputSignal.
type Channel interface {
	ChannelName() string
}

// FindChannel resolves name against channels. An exact match wins; otherwise
// the single channel whose name starts with name (case-insensitive) is
// returned. Two or more prefix matches fail with ErrAmbiguousChannel.
func FindChannel[C Channel](channels []C, name string) (C, error) {
	var zero C
	for _, c := range channels {
		if c.ChannelName() == name {
			return c, nil
		}
	}

	prefix := strings.ToLower(name)
	var (
		found   C
		matches []string
	)
	if prefix != "" {
		for _, c := range channels {
			if strings.HasPrefix(strings.ToLower(c.ChannelName()), prefix) {
				found = c
				matches = append(matches, c.ChannelName())
			}
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: %q", ErrChannelNotFound, name)
	case 1:
		return found, nil
	default:
		return zero, fmt.Errorf("%w: %q matches %s", ErrAmbiguousChannel, name, strings.Join(matches, ", "))
	}
}

func checkUniqueNames[C Channel](channels []C) error {
	seen := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		if _, ok := seen[c.ChannelName()]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateChannel, c.ChannelName())
		}
		seen[c.ChannelName()] = struct{}{}
	}
	return nil
}
