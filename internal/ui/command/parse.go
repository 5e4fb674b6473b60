package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nhle/trainadmin/internal/model"
)

// Command names understood by the palette.
const (
	Refresh       = "refresh"
	Clear         = "clear"
	NewTrain      = "new"
	Sort          = "sort"
	Notifications = "notifications"
	Read          = "read"
	Logout        = "logout"
	Quit          = "quit"
)

var aliases = map[string]string{
	"sync":   Refresh,
	"reload": Refresh,
	"log":    Notifications,
	"q":      Quit,
	"exit":   Quit,
}

// Usage lists the palette commands for the help view.
var Usage = []string{
	"refresh                     reload the train list",
	"clear                       clear the search",
	"new                         create a train",
	"sort <column> [asc|desc]    sort by Name, Departure, Arrival, Origin or Destination",
	"notifications               show the notification log",
	"read                        mark notifications as read",
	"logout                      forget the session",
	"quit                        exit",
}

// Parsed is a validated palette command.
type Parsed struct {
	Name string

	// Set for sort only.
	SortLabel     string
	SortDirection model.SortDirection
}

var errEmpty = errors.New("empty command")

// Parse validates a palette input line.
func Parse(input string) (Parsed, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Parsed{}, errEmpty
	}

	name := strings.ToLower(fields[0])
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	args := fields[1:]

	switch name {
	case Refresh, Clear, NewTrain, Notifications, Read, Logout, Quit:
		if len(args) > 0 {
			return Parsed{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Parsed{Name: name}, nil

	case Sort:
		return parseSort(args)
	}

	return Parsed{}, fmt.Errorf("unknown command %q", fields[0])
}

func parseSort(args []string) (Parsed, error) {
	if len(args) == 0 || len(args) > 2 {
		return Parsed{}, errors.New("usage: sort <column> [asc|desc]")
	}

	label := titleCase(args[0])
	if _, ok := model.ColumnForLabel(label); !ok {
		return Parsed{}, fmt.Errorf("unknown sort column %q", args[0])
	}

	p := Parsed{Name: Sort, SortLabel: label}
	if len(args) == 2 {
		dir, ok := model.ParseSortDirection(strings.ToLower(args[1]))
		if !ok {
			return Parsed{}, fmt.Errorf("unknown sort order %q", args[1])
		}
		p.SortDirection = dir
	}
	return p, nil
}

// titleCase upper-cases the first rune of s and lower-cases the rest.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return strings.ToLower(s)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
