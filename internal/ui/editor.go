package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/shhac/schemadesk/internal/model"
	"github.com/shhac/schemadesk/internal/schema"
)

// EditorPanel shows the schema open in the editor with save, validate and
// publish actions.
type EditorPanel struct {
	widget.BaseWidget

	doc *model.DocumentState

	title       *widget.Label
	path        *widget.Label
	summary     *widget.Label
	entry       *widget.Entry
	saveBtn     *widget.Button
	validateBtn *widget.Button
	publishBtn  *widget.Button

	// Callbacks
	onSave    func()
	onPublish func()
}

// NewEditorPanel creates an editor bound to the document state
func NewEditorPanel(doc *model.DocumentState) *EditorPanel {
	p := &EditorPanel{doc: doc}

	p.title = widget.NewLabelWithData(doc.Title)
	p.title.TextStyle = fyne.TextStyle{Bold: true}
	p.path = widget.NewLabelWithData(doc.Path)
	p.path.Truncation = fyne.TextTruncateEllipsis
	p.summary = widget.NewLabelWithData(doc.Summary)
	p.summary.Wrapping = fyne.TextWrapWord

	p.entry = widget.NewMultiLineEntry()
	p.entry.Bind(doc.Content)
	p.entry.TextStyle = fyne.TextStyle{Monospace: true}
	p.entry.Wrapping = fyne.TextWrapOff
	p.entry.SetPlaceHolder("Select an API version in the tree to open its schema")

	p.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), p.TriggerSave)
	p.validateBtn = widget.NewButtonWithIcon("Validate", theme.ConfirmIcon(), func() {
		_ = p.Validate()
	})
	p.publishBtn = widget.NewButtonWithIcon("Publish to Postman", theme.UploadIcon(), p.TriggerPublish)
	p.publishBtn.Importance = widget.HighImportance

	p.ExtendBaseWidget(p)
	return p
}

// SetOnSave sets the callback for writing the schema back to its file
func (p *EditorPanel) SetOnSave(fn func()) {
	p.onSave = fn
}

// SetOnPublish sets the callback for publishing the schema
func (p *EditorPanel) SetOnPublish(fn func()) {
	p.onPublish = fn
}

// TriggerSave runs the save callback when a document is open
func (p *EditorPanel) TriggerSave() {
	if _, ok := p.doc.Text(); ok && p.onSave != nil {
		p.onSave()
	}
}

// TriggerPublish runs the publish callback. It fires with no document open
// too; the publish flow reports that case.
func (p *EditorPanel) TriggerPublish() {
	if p.onPublish != nil {
		p.onPublish()
	}
}

// Validate checks the open schema against its language and shows the result
func (p *EditorPanel) Validate() error {
	content, ok := p.doc.Text()
	if !ok {
		return nil
	}

	info, err := schema.Validate(p.doc.Session().Schema.Language, content)
	if err != nil {
		_ = p.doc.Summary.Set(err.Error())
		return err
	}
	_ = p.doc.Summary.Set(info.String())
	return nil
}

// CreateRenderer creates the renderer for this widget
func (p *EditorPanel) CreateRenderer() fyne.WidgetRenderer {
	header := container.NewVBox(p.title, p.path)
	footer := container.NewVBox(
		p.summary,
		container.NewHBox(p.saveBtn, p.validateBtn, layout.NewSpacer(), p.publishBtn),
	)
	return widget.NewSimpleRenderer(container.NewBorder(header, footer, nil, nil, p.entry))
}
