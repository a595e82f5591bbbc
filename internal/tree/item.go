// Package tree projects the cached workspace hierarchy into view models for
// the browser panes. It performs no I/O beyond reading the store and knows
// nothing about the widget toolkit.
package tree

import "github.com/shhac/schemadesk/internal/domain"

// Collapsible describes the expand affordance of a node
type Collapsible int

const (
	// CollapsibleNone marks a leaf
	CollapsibleNone Collapsible = iota
	// CollapsibleCollapsed marks a branch that starts closed
	CollapsibleCollapsed
)

// Icon names the glyph drawn next to a node
type Icon string

const (
	IconNone      Icon = ""
	IconWorkspace Icon = "workspace"
	IconAPI       Icon = "api"
	IconVersion   Icon = "version"
	IconDownload  Icon = "download"
)

// Command names understood by the hosts
const (
	CommandOpenVersion = "openVersion"
	CommandFetchSchema = "fetchSchema"
)

// Command is the action bound to a node. Args are passed to the handler
// in order.
type Command struct {
	Name string
	Args []string
}

// Item is the immutable display form of a node. It is built from a stored
// record and never written back.
type Item struct {
	ID           string
	Label        string
	Kind         domain.Kind
	Collapsible  Collapsible
	Icon         Icon
	ContextValue string
	Command      *Command
}

// IsBranch reports whether the node can be expanded
func (i Item) IsBranch() bool {
	return i.Collapsible != CollapsibleNone
}

// Present maps a stored record to its view model
func Present(r domain.Record) Item {
	item := Item{
		ID:           r.ID,
		Label:        r.Name,
		Kind:         r.Kind,
		ContextValue: string(r.Kind),
	}

	switch r.Kind {
	case domain.KindAPIVersion:
		item.Collapsible = CollapsibleNone
		item.Icon = IconVersion
		item.Command = &Command{Name: CommandOpenVersion, Args: []string{r.ID}}
	case domain.KindAPI:
		item.Collapsible = CollapsibleCollapsed
		item.Icon = IconAPI
	default:
		item.Collapsible = CollapsibleCollapsed
		item.Icon = IconWorkspace
	}
	return item
}
