package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskdeck/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses a task id as printed by list: digits, optionally
// prefixed with '#'. Ids start at 1.
func ParseTaskID(arg string) (int, error) {
	s := strings.TrimPrefix(arg, "#")
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	return id, nil
}

// parseIDArg parses the leading task id of args and returns the rest.
func parseIDArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskIDRequired
	}
	id, err := ParseTaskID(args[0])
	if err != nil {
		return 0, nil, err
	}
	return id, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// containsTask reports whether tasks holds id.
func containsTask(tasks []service.Task, id int) bool {
	for _, t := range tasks {
		if t.LocalID == id {
			return true
		}
	}
	return false
}
