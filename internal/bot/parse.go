package bot

import (
	"errors"
	"fmt"
	"strings"
)

// ParseIDArg extracts an item ID from a command argument string.
func ParseIDArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", errors.New("item ID is required")
	}
	return strings.TrimPrefix(fields[0], "#"), nil
}

// ParseSetStatusArgs extracts an item ID and the new status.
func ParseSetStatusArgs(args string) (string, string, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", errors.New("usage: /setstatus <id> <status>")
	}
	return strings.TrimPrefix(fields[0], "#"), fields[1], nil
}

// ParseSendArgs extracts a contact ID and the message text.
func ParseSendArgs(args string) (string, string, error) {
	id, text, ok := strings.Cut(strings.TrimSpace(args), " ")
	text = strings.TrimSpace(text)
	if !ok || id == "" || text == "" {
		return "", "", errors.New("usage: /send <contact_id> <text>")
	}
	return strings.TrimPrefix(id, "#"), text, nil
}

// ParseDeliveryArgs extracts the delivery option and an optional pickup
// schedule.
func ParseDeliveryArgs(args string) (string, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return "", "", errors.New("usage: /delivery pickup|delivery [YYYY-MM-DDTHH:MM]")
	}
	option := strings.ToLower(fields[0])
	schedule := ""
	if len(fields) == 2 {
		schedule = fields[1]
	}
	return option, schedule, nil
}

// ParseToggle reads an on/off argument.
func ParseToggle(args string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", args)
	}
}

// ParseNotifyArgs extracts a notification channel and its new state.
func ParseNotifyArgs(args string) (string, bool, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", false, errors.New("usage: /notify email|push on|off")
	}
	channel := strings.ToLower(fields[0])
	if channel != "email" && channel != "push" {
		return "", false, fmt.Errorf("unknown channel %q, use: email, push", fields[0])
	}
	on, err := ParseToggle(fields[1])
	if err != nil {
		return "", false, err
	}
	return channel, on, nil
}

// parseCallback splits callback data of the form action:argument.
func parseCallback(data string) (string, string, bool) {
	action, arg, ok := strings.Cut(data, ":")
	if !ok || action == "" || arg == "" {
		return "", "", false
	}
	return action, arg, true
}
