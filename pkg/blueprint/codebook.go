package blueprint

import (
	"io"
	"text/template"

	"github.com/pkg/errors"

	"github.com/askiada/go-blueprint/pkg/blueprint/metadata"
)

const codebookTemplate = `# {{.Title}}
{{- if .Description}}

{{.Description}}
{{- end}}
{{range .Variables}}
## {{.Name}}
{{- if .Title}}

**{{.Title}}**
{{- end}}
{{- if .Description}}

{{.Description}}
{{- end}}
{{- if .Dropped}}

Dropped from the final dataset.
{{- end}}
{{- if .Levels}}

| code | label |
|------|-------|
{{- range .Levels}}
| {{.Code}} | {{.Label}} |
{{- end}}
{{- end}}
{{end}}`

type codebookData struct {
	Title       string
	Description string
	Variables   []codebookVariable
}

type codebookVariable struct {
	Name        string
	Title       string
	Description string
	Dropped     bool
	Levels      []metadata.Level
}

// Codebook renders a markdown codebook for the blueprint's metadata table:
// one section per variable with its title, description, drop status and
// coding levels. The document is the artifact named by CodebookName.
func Codebook(wrt io.Writer, bp *Blueprint, tbl metadata.Table) error {
	if bp == nil {
		return ErrBlueprintMustBeSet
	}
	err := tbl.Validate()
	if err != nil {
		return errors.Wrap(err, "unable to render codebook for invalid metadata")
	}

	data := codebookData{
		Title:       bp.name,
		Description: bp.description,
	}
	for _, variable := range tbl.Variables {
		entry := codebookVariable{
			Name:        variable.Name,
			Title:       variable.Title,
			Description: variable.Description,
			Dropped:     variable.Dropped,
		}
		if !variable.Coding.Empty() {
			entry.Levels = variable.Coding.Levels
		}
		data.Variables = append(data.Variables, entry)
	}

	tpl, err := template.New("codebook").Parse(codebookTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse codebook template")
	}

	err = tpl.Execute(wrt, data)
	if err != nil {
		return errors.Wrap(err, "unable to execute codebook template")
	}

	return nil
}
