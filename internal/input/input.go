package input

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/san-kum/algoviz/internal/dataset"
)

// MaxElements caps the nodes a custom graph may declare.
const MaxElements = 128

var validate *validator.Validate

var nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,8}$`)

func init() {
	validate = validator.New()
	mustRegister("nodeid", func(fl validator.FieldLevel) bool {
		return nodeIDPattern.MatchString(fl.Field().String())
	})
	mustRegister("gridrow", func(fl validator.FieldLevel) bool {
		return strings.Trim(fl.Field().String(), "ST#.") == ""
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("input: register %q validation: %v", tag, err))
	}
}

// FieldError reports which part of the custom input was rejected.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("input: %s: %s", e.Field, e.Message)
}

type arrayPayload struct {
	Values []float64 `validate:"required,min=1,max=128,dive,gte=-10000,lte=10000"`
}

type edge struct {
	From   string  `validate:"required,nodeid"`
	To     string  `validate:"omitempty,nodeid,nefield=From"`
	Weight float64 `validate:"gt=0,lte=10000"`
}

type graphPayload struct {
	Edges []edge `validate:"required,min=1,max=128,dive"`
}

type gridPayload struct {
	Rows    []string `validate:"required,min=1,max=32,dive,required,max=32,gridrow"`
	Starts  int      `validate:"eq=1"`
	Targets int      `validate:"eq=1"`
}

type point struct {
	X float64 `validate:"gte=-10000,lte=10000"`
	Y float64 `validate:"gte=-10000,lte=10000"`
}

type pointPayload struct {
	Points []point `validate:"required,min=1,max=128,dive"`
}

// Parse turns user text into a data set for the given category. Nothing
// partial is ever returned: either the whole input is valid or err is a
// *FieldError.
//
//	array     "5,3,8,1"
//	graph     "A-B:4, B-C, D"
//	grid      "S..#/.#../...T" (rows split by '/' or newlines)
//	geometry  "1 2; 3 4; 5 0"
func Parse(c dataset.Category, text string) (dataset.DataSet, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &FieldError{Field: "input", Message: "is empty"}
	}

	var (
		d   dataset.DataSet
		err error
	)
	switch c {
	case dataset.CategoryArray:
		d, err = parseArray(text)
	case dataset.CategoryGraph:
		d, err = parseGraph(text)
	case dataset.CategoryGrid:
		d, err = parseGrid(text)
	case dataset.CategoryGeometry:
		d, err = parsePoints(text)
	default:
		return nil, &FieldError{Field: "category", Message: fmt.Sprintf("unknown category %q", c)}
	}
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, &FieldError{Field: "input", Message: err.Error()}
	}
	return d, nil
}

func splitList(s string, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(seps, r) })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &FieldError{Field: field, Message: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

func parseArray(text string) (dataset.DataSet, error) {
	var p arrayPayload
	for i, tok := range splitList(text, ", \t\n") {
		v, err := parseNumber(fmt.Sprintf("values[%d]", i), tok)
		if err != nil {
			return nil, err
		}
		p.Values = append(p.Values, v)
	}
	if err := check(p); err != nil {
		return nil, err
	}
	return dataset.FromValues(p.Values...), nil
}

func parseGraph(text string) (dataset.DataSet, error) {
	var p graphPayload
	for i, tok := range splitList(text, ",;\n") {
		e := edge{Weight: 1}
		pair := tok
		if at := strings.LastIndex(tok, ":"); at >= 0 {
			w, err := parseNumber(fmt.Sprintf("edges[%d].weight", i), tok[at+1:])
			if err != nil {
				return nil, err
			}
			e.Weight = w
			pair = tok[:at]
		}
		from, to, _ := strings.Cut(pair, "-")
		e.From, e.To = strings.TrimSpace(from), strings.TrimSpace(to)
		p.Edges = append(p.Edges, e)
	}
	if err := check(p); err != nil {
		return nil, err
	}

	var d dataset.DataSet
	node := func(id string) int {
		if i := d.Index(id); i >= 0 {
			return i
		}
		d = append(d, dataset.Element{ID: id, Value: float64(len(d)), Text: id, Tag: dataset.TagDefault})
		return len(d) - 1
	}
	for _, e := range p.Edges {
		a := node(e.From)
		if e.To == "" {
			continue
		}
		b := node(e.To)
		if linked(d[a], d[b].ID) {
			continue
		}
		d[a].Neighbors = append(d[a].Neighbors, dataset.Neighbor{ID: d[b].ID, Weight: e.Weight})
		d[b].Neighbors = append(d[b].Neighbors, dataset.Neighbor{ID: d[a].ID, Weight: e.Weight})
	}
	if len(d) > MaxElements {
		return nil, &FieldError{Field: "edges", Message: fmt.Sprintf("more than %d nodes", MaxElements)}
	}
	return d, nil
}

func linked(e dataset.Element, id string) bool {
	for _, n := range e.Neighbors {
		if n.ID == id {
			return true
		}
	}
	return false
}

func parseGrid(text string) (dataset.DataSet, error) {
	var p gridPayload
	p.Rows = splitList(text, "/\n")
	for _, row := range p.Rows {
		p.Starts += strings.Count(row, "S")
		p.Targets += strings.Count(row, "T")
	}
	if err := check(p); err != nil {
		return nil, err
	}
	width := len(p.Rows[0])
	for i, row := range p.Rows {
		if len(row) != width {
			return nil, &FieldError{Field: fmt.Sprintf("rows[%d]", i), Message: fmt.Sprintf("has %d cells, want %d", len(row), width)}
		}
	}

	d := make(dataset.DataSet, 0, len(p.Rows)*width)
	for r, row := range p.Rows {
		for c, ch := range row {
			e := dataset.Element{ID: fmt.Sprintf("%d,%d", r, c), Tag: dataset.TagDefault, Cell: &dataset.Cell{Row: r, Col: c}}
			switch ch {
			case '#':
				e.Value, e.Tag = 1, dataset.TagWall
			case 'S':
				e.Value, e.Tag = 2, dataset.TagActive
			case 'T':
				e.Value, e.Tag = 3, dataset.TagTarget
			}
			d = append(d, e)
		}
	}
	return dataset.LinkGrid(d), nil
}

func parsePoints(text string) (dataset.DataSet, error) {
	var p pointPayload
	for i, tok := range splitList(text, ";\n") {
		xy := splitList(tok, ", \t")
		if len(xy) != 2 {
			return nil, &FieldError{Field: fmt.Sprintf("points[%d]", i), Message: fmt.Sprintf("%q needs an x and a y", tok)}
		}
		x, err := parseNumber(fmt.Sprintf("points[%d].x", i), xy[0])
		if err != nil {
			return nil, err
		}
		y, err := parseNumber(fmt.Sprintf("points[%d].y", i), xy[1])
		if err != nil {
			return nil, err
		}
		p.Points = append(p.Points, point{X: x, Y: y})
	}
	if err := check(p); err != nil {
		return nil, err
	}

	d := make(dataset.DataSet, len(p.Points))
	for i, pt := range p.Points {
		d[i] = dataset.Element{ID: fmt.Sprintf("P%d", i), Tag: dataset.TagDefault, Point: &dataset.Point{X: pt.X, Y: pt.Y}}
	}
	return d, nil
}

// check runs struct validation and reports the first failing field.
func check(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Field: "input", Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &FieldError{Field: strings.ToLower(field), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entries"
	case "max":
		return "allows at most " + fe.Param() + " entries"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "eq":
		return "must occur exactly " + fe.Param() + " time(s)"
	case "nefield":
		return "self loops are not allowed"
	case "nodeid":
		return fmt.Sprintf("%q is not a valid node id", fe.Value())
	case "gridrow":
		return "only S, T, # and . are allowed"
	}
	return "failed " + fe.Tag()
}

// Resolve returns parsed custom data when text is set, otherwise seeded
// synthetic data of the given size. A zero seed picks one from the clock and
// the seed actually used is returned.
func Resolve(c dataset.Category, text string, size int, seed int64) (dataset.DataSet, int64, error) {
	if strings.TrimSpace(text) != "" {
		d, err := Parse(c, text)
		return d, seed, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return dataset.Seed(c, size, rand.New(rand.NewSource(seed))), seed, nil
}
