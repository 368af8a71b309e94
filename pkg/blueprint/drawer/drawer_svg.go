package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-blueprint/pkg/blueprint/measure"
	"github.com/askiada/go-blueprint/pkg/blueprint/model"
)

// SVGDrawer renders a plan's step graph as a DOT file suitable for graphviz,
// colouring each step by its kind.
type SVGDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

var _ Drawer = (*SVGDrawer)(nil)

// NewSVGDrawer creates a drawer writing to the given file.
func NewSVGDrawer(fileName string) *SVGDrawer {
	return &SVGDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// kindFill returns the fill colour for a step kind.
func kindFill(kind model.StepKind) (string, error) {
	var r, g, b uint8
	switch kind {
	case model.InitialKind:
		r, g, b = 70, 130, 180
	case model.RefKind:
		r, g, b = 128, 128, 128
	case model.MetaKind:
		r, g, b = 46, 139, 87
	case model.ChecksKind:
		r, g, b = 218, 165, 32
	case model.FinalKind:
		r, g, b = 178, 34, 34
	default:
		r, g, b = 211, 211, 211
	}

	fill, err := colors.RGB(r, g, b) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return fill.ToHEX().String(), nil
}

// AddStep adds a step vertex coloured by kind.
func (d *SVGDrawer) AddStep(stepName string, kind model.StepKind) error {
	fill, err := kindFill(kind)
	if err != nil {
		return err
	}

	err = d.graph.AddVertex(stepName,
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", fill),
		graph.VertexAttribute("fontcolor", "white"),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", stepName)
	}

	return nil
}

// AddLink adds a dependency edge between parent and child steps.
func (d *SVGDrawer) AddLink(parentStepName, childStepName string) error {
	err := d.graph.AddEdge(parentStepName, childStepName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentStepName, childStepName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure attaches measured average durations as step labels and colours
// each step border on a blue-to-red gradient from fastest to slowest.
func (d *SVGDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	durations := make([]time.Duration, 0, len(metrics))
	for _, mt := range metrics {
		if mt.Runs() == 0 {
			continue
		}
		durations = append(durations, mt.AVGDuration())
	}
	if len(durations) == 0 {
		return nil
	}
	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})
	minValue, maxValue := durations[0], durations[len(durations)-1]

	for name, mt := range metrics {
		if mt.Runs() == 0 {
			continue
		}
		avg := mt.AVGDuration()

		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}
		heat, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB*(1-fraction))) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}
		properties.Attributes["xlabel"] = avg.String()
		properties.Attributes["color"] = heat.ToHEX().String()
	}

	return nil
}

// Draw creates the DOT file with the plan graph.
func (d *SVGDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to render dot file %s", d.fileName)
	}

	return nil
}

const dotTemplate = `strict digraph {
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}-> "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	Statements []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](gra graph.Graph[K, T], wrt io.Writer) error {
	desc, err := generateDOT(gra)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T]) (description, error) {
	desc := description{
		Statements: make([]statement, 0),
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)
			delete(sourceProperties.Attributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		})

		for adjacency, edge := range adjacencies {
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
