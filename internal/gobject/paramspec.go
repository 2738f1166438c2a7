package gobject

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is a GParamSpec type, named after its g_param_spec_<kind> constructor.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindBoxed   Kind = "boxed"
	KindDouble  Kind = "double"
	KindEnum    Kind = "enum"
	KindFlags   Kind = "flags"
	KindFloat   Kind = "float"
	KindInt     Kind = "int"
	KindObject  Kind = "object"
	KindPointer Kind = "pointer"
	KindString  Kind = "string"
	KindUInt    Kind = "uint"
)

// question is one extra prompt a kind needs. apply records the answer.
type question struct {
	label       string
	completions []string
	apply       func(spec *ParamSpec, answer string)
}

// argReader lists the prompts for a kind's extra constructor arguments,
// the ones between the blurb and the flags.
type argReader interface {
	questions() []question
}

type booleanArgs struct{}

func (booleanArgs) questions() []question {
	return []question{{
		label:       "Default value [TRUE]:",
		completions: []string{"TRUE", "FALSE"},
		apply: func(spec *ParamSpec, answer string) {
			if strings.EqualFold(answer, "false") {
				spec.Args = []string{"FALSE"}
			} else {
				spec.Args = []string{"TRUE"}
			}
		},
	}}
}

// typedArgs asks for the GType macro, and for enums and flags also for
// the default value.
type typedArgs struct {
	withDefault bool
}

func (t typedArgs) questions() []question {
	qs := []question{{
		label: "Type:",
		apply: func(spec *ParamSpec, answer string) {
			spec.Args = append(spec.Args, answer)
		},
	}}
	if t.withDefault {
		qs = append(qs, question{
			label: "Default: [0]",
			apply: func(spec *ParamSpec, answer string) {
				spec.Args = append(spec.Args, orDefault(answer, "0"))
			},
		})
	}
	return qs
}

// numericArgs asks for minimum, maximum and default; empty answers take
// the kind's limits.
type numericArgs struct {
	min, max string
}

func (n numericArgs) questions() []question {
	ask := func(label, def string) question {
		return question{
			label: fmt.Sprintf("%s [%s]:", label, def),
			apply: func(spec *ParamSpec, answer string) {
				spec.Args = append(spec.Args, orDefault(answer, def))
			},
		}
	}
	return []question{
		ask("Min", n.min),
		ask("Max", n.max),
		ask("Default", "0"),
	}
}

type stringArgs struct{}

func (stringArgs) questions() []question {
	return []question{{
		label: "Default [NULL]:",
		apply: func(spec *ParamSpec, answer string) {
			answer = orDefault(answer, "NULL")
			if answer != "NULL" {
				answer = quote(answer)
			}
			spec.Args = append(spec.Args, answer)
		},
	}}
}

type noArgs struct{}

func (noArgs) questions() []question { return nil }

var kinds = map[Kind]argReader{
	KindBoolean: booleanArgs{},
	KindBoxed:   typedArgs{},
	KindDouble:  numericArgs{min: "G_MINDOUBLE", max: "G_MAXDOUBLE"},
	KindEnum:    typedArgs{withDefault: true},
	KindFlags:   typedArgs{withDefault: true},
	KindFloat:   numericArgs{min: "G_MINFLOAT", max: "G_MAXFLOAT"},
	KindInt:     numericArgs{min: "G_MININT", max: "G_MAXINT"},
	KindObject:  typedArgs{},
	KindPointer: noArgs{},
	KindString:  stringArgs{},
	KindUInt:    numericArgs{min: "0", max: "G_MAXUINT"},
}

// Kinds lists the supported kinds in alphabetical order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// ParamSpec is a property being generated.
type ParamSpec struct {
	Kind  Kind
	Name  string // canonical, dash separated
	Nick  string
	Blurb string
	Flags string
	Args  []string
}

// Enum returns the property's enum constant, PROP_<NAME>.
func (p *ParamSpec) Enum() string {
	return "PROP_" + strings.ToUpper(strings.ReplaceAll(p.Name, "-", "_"))
}

// String renders the g_param_spec_<kind> call with every argument after
// the first on its own line, aligned past the opening parenthesis.
func (p *ParamSpec) String() string {
	name := "g_param_spec_" + string(p.Kind)
	indent := strings.Repeat(" ", len(name)+2)

	args := ""
	if len(p.Args) > 0 {
		args = "\n" + indent + strings.Join(p.Args, ",\n"+indent) + ","
	}

	return fmt.Sprintf("%s (%s,\n%s%s,\n%s%s,%s\n%s%s)",
		name, quote(p.Name),
		indent, quote(p.Nick),
		indent, quote(p.Blurb),
		args,
		indent, p.Flags)
}

// installIndent aligns continuation lines past
// "g_object_class_install_property (".
var installIndent = strings.Repeat(" ", len("g_object_class_install_property ("))

// Install renders the statement registering the property in class_init,
// preceded by a blank line and indented one tab.
func (p *ParamSpec) Install() string {
	spec := strings.Join(strings.Split(p.String(), "\n"), "\n"+installIndent)
	stmt := "\ng_object_class_install_property (object_class,\n" +
		installIndent + p.Enum() + ",\n" +
		installIndent + spec + ");"
	return strings.Join(strings.Split(stmt, "\n"), "\n\t")
}

// quote makes s a C string literal unless it already is one or is a
// translated _("...") literal.
func quote(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `_("`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
