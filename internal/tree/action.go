package tree

// FetchLabel is the text of the single action node
const FetchLabel = "Fetch API from Postman"

// ActionProvider serves the static action pane
type ActionProvider struct{}

// Children returns the one fetch action for the root and nothing below it
func (ActionProvider) Children(node *Item) []Item {
	if node != nil {
		return nil
	}
	return []Item{{
		ID:      CommandFetchSchema,
		Label:   FetchLabel,
		Icon:    IconDownload,
		Command: &Command{Name: CommandFetchSchema},
	}}
}

// Present returns the item unchanged
func (ActionProvider) Present(item Item) Item {
	return item
}
