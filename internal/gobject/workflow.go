// Package gobject adds GObject properties to a C source file: the PROP_
// enum entry, get/set_property cases and the install_property call.
package gobject

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/prompt"
	"github.com/bethropolis/reflow/internal/types"
)

// DefaultFlags is used when the flags prompt is left empty.
const DefaultFlags = "G_PARAM_READWRITE"

// FlagCompletions are the common flag combinations offered at the prompt.
var FlagCompletions = []string{
	"G_PARAM_READWRITE",
	"G_PARAM_READABLE",
	"G_PARAM_WRITABLE",
	"G_PARAM_READWRITE | G_PARAM_CONSTRUCT",
	"G_PARAM_READWRITE | G_PARAM_CONSTRUCT_ONLY",
	"G_PARAM_WRITABLE | G_PARAM_CONSTRUCT",
}

var (
	typeNameRe  = regexp.MustCompile(`^\s*G_DEFINE_(?:DYNAMIC_|ABSTRACT_)?TYPE[^(]*\(\s*([A-Za-z_0-9]+)`)
	typeWordRe  = regexp.MustCompile(`[A-Z]+[a-z0-9]*`)
	defineRe    = regexp.MustCompile(`^\s*G_DEFINE_(?:DYNAMIC_|ABSTRACT_)?TYPE`)
	prop0Re     = regexp.MustCompile(`^\s*PROP_0\s*(?:,|$)`)
	enumEndRe   = regexp.MustCompile(`^};$`)
	blankLineRe = regexp.MustCompile(`^$`)
	finalizeRe  = regexp.MustCompile(`->(?:finalize|dispose)\s*=`)
	defaultRe   = regexp.MustCompile(`default:`)
	closeRe     = regexp.MustCompile(`^}$`)
)

// State is a step of the add-property workflow.
type State int

const (
	CollectingName State = iota
	CollectingType
	CollectingNick
	CollectingDescription
	CollectingFlags
	CollectingTypeArgs
	Committing
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case CollectingName:
		return "CollectingName"
	case CollectingType:
		return "CollectingType"
	case CollectingNick:
		return "CollectingNick"
	case CollectingDescription:
		return "CollectingDescription"
	case CollectingFlags:
		return "CollectingFlags"
	case CollectingTypeArgs:
		return "CollectingTypeArgs"
	case Committing:
		return "Committing"
	case Done:
		return "Done"
	case Aborted:
		return "Aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options pre-supply answers and defaults.
type Options struct {
	Name         string
	Type         string
	DefaultFlags string
}

// Workflow adds one property. Each Step asks at most one question, so a
// caller driving an interactive loop can suspend between steps.
type Workflow struct {
	buf      buffer.Buffer
	prompter prompt.Prompter
	opts     Options

	state State
	err   error

	typeName string   // CamelCase type name, e.g. GeditFooBar
	words    []string // its words, e.g. Gedit Foo Bar
	prefix   string   // function prefix, e.g. gedit_foo_bar

	spec      ParamSpec
	questions []question
}

// New prepares the workflow for buf. It fails when buf has no
// G_DEFINE_TYPE line naming the class.
func New(buf buffer.Buffer, p prompt.Prompter, opts Options) (*Workflow, error) {
	m, ok := findPerLine(buf, typeNameRe, 0)
	if !ok {
		return nil, types.Failf(types.ErrStructureNotFound, "Could not determine gobject type name...")
	}
	if opts.DefaultFlags == "" {
		opts.DefaultFlags = DefaultFlags
	}

	camel := m.groups[1]
	words := typeWordRe.FindAllString(camel, -1)
	w := &Workflow{
		buf:      buf,
		prompter: p,
		opts:     opts,
		typeName: camel,
		words:    words,
		prefix:   strings.ToLower(strings.Join(words, "_")),
	}
	logger.DebugTagf("gobject", "type %s, function prefix %s", camel, w.prefix)
	return w, nil
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// Spec returns the property collected so far.
func (w *Workflow) Spec() ParamSpec { return w.spec }

// Prefix returns the class's function prefix.
func (w *Workflow) Prefix() string { return w.prefix }

// Run steps until the workflow is done or aborted.
func (w *Workflow) Run(ctx context.Context) error {
	for w.state != Done && w.state != Aborted {
		if err := w.Step(ctx); err != nil {
			return err
		}
	}
	return w.err
}

// Step performs one transition. Any error moves the workflow to Aborted.
func (w *Workflow) Step(ctx context.Context) error {
	err := w.step(ctx)
	if err != nil {
		logger.DebugTagf("gobject", "aborted in %v: %v", w.state, err)
		w.state = Aborted
		w.err = err
	}
	return err
}

func (w *Workflow) step(ctx context.Context) error {
	switch w.state {
	case CollectingName:
		name := w.opts.Name
		if name == "" {
			reply, err := w.ask(ctx, prompt.Request{Label: "Property name:"})
			if err != nil {
				return err
			}
			name = reply.Text
		}
		if err := w.setName(name); err != nil {
			return err
		}
		w.state = CollectingType

	case CollectingType:
		kind := w.opts.Type
		if kind == "" {
			reply, err := w.ask(ctx, prompt.Request{Label: "Type:", Completions: Kinds()})
			if err != nil {
				return err
			}
			kind = reply.Text
		}
		if err := w.setKind(kind); err != nil {
			return err
		}
		w.state = CollectingNick

	case CollectingNick:
		def := titleCase(strings.ReplaceAll(w.spec.Name, "-", " "))
		reply, err := w.ask(ctx, prompt.Request{Label: "Nick [" + def + "]:"})
		if err != nil {
			return err
		}
		w.spec.Nick = orDefault(reply.Text, def)
		w.state = CollectingDescription

	case CollectingDescription:
		def := sentenceCase(strings.ReplaceAll(w.spec.Name, "-", " "))
		reply, err := w.ask(ctx, prompt.Request{Label: "Description [" + def + "]:"})
		if err != nil {
			return err
		}
		w.spec.Blurb = orDefault(reply.Text, def)
		w.state = CollectingFlags

	case CollectingFlags:
		def := w.opts.DefaultFlags
		reply, err := w.ask(ctx, prompt.Request{Label: "Flags [" + def + "]:", Completions: FlagCompletions})
		if err != nil {
			return err
		}
		w.spec.Flags = orDefault(reply.Text, def)
		w.questions = kinds[w.spec.Kind].questions()
		w.state = CollectingTypeArgs

	case CollectingTypeArgs:
		if len(w.questions) == 0 {
			w.state = Committing
			return nil
		}
		q := w.questions[0]
		reply, err := w.ask(ctx, prompt.Request{Label: q.label, Completions: q.completions})
		if err != nil {
			return err
		}
		q.apply(&w.spec, reply.Text)
		w.questions = w.questions[1:]

	case Committing:
		if err := w.commit(); err != nil {
			return err
		}
		w.state = Done

	default:
		return fmt.Errorf("workflow already finished in state %v", w.state)
	}
	return nil
}

func (w *Workflow) ask(ctx context.Context, req prompt.Request) (prompt.Reply, error) {
	reply, err := w.prompter.Prompt(ctx, req)
	if err != nil {
		if !errors.Is(err, types.ErrUserCancelled) {
			err = fmt.Errorf("%w: %v", types.ErrUserCancelled, err)
		}
		return prompt.Reply{}, err
	}
	reply.Text = strings.TrimSpace(reply.Text)
	return reply, nil
}

func (w *Workflow) setName(name string) error {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	if name == "" {
		return types.Failf(types.ErrInvalidArgument, "Property name cannot be empty")
	}
	w.spec.Name = name
	taken := regexp.MustCompile(`\b` + regexp.QuoteMeta(w.spec.Enum()) + `\b`)
	if taken.MatchString(w.buf.Text()) {
		return types.Failf(types.ErrDuplicateEntity, "Property `%s' already exists", name)
	}
	return nil
}

func (w *Workflow) setKind(kind string) error {
	kind = strings.TrimSpace(kind)
	if _, ok := kinds[Kind(kind)]; !ok {
		return types.Failf(types.ErrInvalidArgument, "Unknown property type `%s' (one of %s)",
			kind, strings.Join(Kinds(), ", "))
	}
	w.spec.Kind = Kind(kind)
	return nil
}

// commit writes the property into the buffer as one user action. A
// failure part way leaves the edits made so far in place.
func (w *Workflow) commit() error {
	buf := w.buf
	buf.BeginUserAction()
	defer buf.EndUserAction()

	var marks []buffer.MarkerID
	defer func() {
		for _, id := range marks {
			buf.ReleaseMarker(id)
		}
	}()
	mark := func(pos int) buffer.MarkerID {
		id := buf.CreateMarker(pos, buffer.RightGravity)
		marks = append(marks, id)
		return id
	}

	enumAt, err := w.enumInsertion()
	if err != nil {
		return err
	}
	enumMark := mark(enumAt)

	getAt, err := w.accessorInsertion("get")
	if err != nil {
		return err
	}
	getMark := mark(getAt)

	setAt, err := w.accessorInsertion("set")
	if err != nil {
		return err
	}
	setMark := mark(setAt)

	enum := w.spec.Enum()
	if err := insertAtMark(buf, enumMark, ",\n\t"+enum); err != nil {
		return err
	}
	caseStub := fmt.Sprintf("\t\tcase %s:\n\t\t\t/* TODO */\n\t\t\tbreak;\n", enum)
	if strings.Contains(w.spec.Flags, "READ") {
		if err := insertAtMark(buf, getMark, caseStub); err != nil {
			return err
		}
	}
	if strings.Contains(w.spec.Flags, "WRIT") {
		if err := insertAtMark(buf, setMark, caseStub); err != nil {
			return err
		}
	}

	classInit, ok := find(buf, w.classInitRe(), 0)
	if !ok {
		return types.Failf(types.ErrStructureNotFound, "Could not find %s_class_init...", w.prefix)
	}
	closing, ok := findPerLine(buf, closeRe, classInit.end)
	if !ok {
		return types.Failf(types.ErrStructureNotFound, "Could not find the end of %s_class_init...", w.prefix)
	}
	if err := buf.Insert(closing.start, w.spec.Install()+"\n"); err != nil {
		return err
	}

	logger.Infof("gobject: added %s property %s to %s", w.spec.Kind, w.spec.Name, w.typeName)
	return nil
}

func insertAtMark(buf buffer.Buffer, id buffer.MarkerID, text string) error {
	pos, err := buf.MarkerOffset(id)
	if err != nil {
		return err
	}
	return buf.Insert(pos, text)
}

func (w *Workflow) classInitRe() *regexp.Regexp {
	return regexp.MustCompile(`static\s+void\s+` + regexp.QuoteMeta(w.prefix) + `_class_init\s*\(`)
}

func (w *Workflow) accessorRe(op string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(w.prefix+"_"+op+"_property") + `\s*\(`)
}

const enumBlock = "\nenum\n{\n\tPROP_0\n};\n"

// enumInsertion returns where ",\n\tPROP_X" goes: the end of the last entry
// of the property enum. The enum is created after the G_DEFINE_TYPE line
// when there is none.
func (w *Workflow) enumInsertion() (int, error) {
	buf := w.buf
	if prop0, ok := findPerLine(buf, prop0Re, 0); ok {
		end, ok := findPerLine(buf, enumEndRe, prop0.end)
		if !ok {
			return 0, types.Failf(types.ErrStructureNotFound, "Could not determine where to insert the property enum...")
		}
		return end.start - 1, nil
	}

	def, ok := findPerLine(buf, defineRe, 0)
	if !ok {
		return 0, types.Failf(types.ErrStructureNotFound, "Could not determine where to insert the property enum...")
	}
	blank, ok := findPerLine(buf, blankLineRe, def.end)
	if !ok {
		return 0, types.Failf(types.ErrStructureNotFound, "Could not determine where to insert the property enum...")
	}
	if err := buf.Insert(blank.start, enumBlock); err != nil {
		return 0, err
	}
	// Right after PROP_0.
	return blank.start + utf8.RuneCountInString(enumBlock) - len("\n};\n"), nil
}

// accessorInsertion returns the start of the default: line in the
// <prefix>_<op>_property switch, generating both accessors first when
// the class has none.
func (w *Workflow) accessorInsertion(op string) (int, error) {
	re := w.accessorRe(op)
	fn, ok := findPerLine(w.buf, re, 0)
	if !ok {
		if err := w.generateAccessors(op); err != nil {
			return 0, err
		}
		if fn, ok = findPerLine(w.buf, re, 0); !ok {
			return 0, types.Failf(types.ErrStructureNotFound, "Could not determine the %s_property...", op)
		}
	}

	def, ok := findPerLine(w.buf, defaultRe, fn.end)
	if !ok {
		return 0, types.Failf(types.ErrStructureNotFound, "Could not determine the %s_property...", op)
	}
	return w.buf.LineStart(def.start), nil
}

const accessorStub = `static void
%s_%s_property (GObject *object, guint prop_id, %sGValue *value, GParamSpec *pspec)
{
	%s *self = %s (object);

	switch (prop_id)
	{
		default:
			G_OBJECT_WARN_INVALID_PROPERTY_ID (object, prop_id, pspec);
		break;
	}
}

`

// generateAccessors adds get_property and set_property stubs in front of
// class_init and hooks them up after the finalize or dispose assignment.
func (w *Workflow) generateAccessors(op string) error {
	buf := w.buf
	classInit, ok := find(buf, w.classInitRe(), 0)
	if !ok {
		return types.Failf(types.ErrStructureNotFound, "Could not determine the %s_property...", op)
	}
	anchor := buf.CreateMarker(classInit.start, buffer.LeftGravity)
	defer buf.ReleaseMarker(anchor)

	hook, ok := findPerLine(buf, finalizeRe, 0)
	if !ok {
		return types.Failf(types.ErrStructureNotFound, "Could not determine the %s_property...", op)
	}
	assign := fmt.Sprintf("\n\n\tobject_class->get_property = %[1]s_get_property;"+
		"\n\tobject_class->set_property = %[1]s_set_property;\n", w.prefix)
	if err := buf.Insert(buf.LineEnd(hook.end), assign); err != nil {
		return err
	}

	cast := strings.ToUpper(strings.Join(w.words, "_"))
	for _, acc := range []struct{ op, constness string }{{"get", ""}, {"set", "const "}} {
		at, err := buf.MarkerOffset(anchor)
		if err != nil {
			return err
		}
		stub := fmt.Sprintf(accessorStub, w.prefix, acc.op, acc.constness, w.typeName, cast)
		if err := buf.Insert(buf.LineStart(at), stub); err != nil {
			return err
		}
	}
	logger.DebugTagf("gobject", "generated %s_get_property and %s_set_property", w.prefix, w.prefix)
	return nil
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = sentenceCase(word)
	}
	return strings.Join(words, " ")
}

// sentenceCase upper-cases the first letter and lower-cases the rest.
func sentenceCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
