package command

import (
	"context"

	"github.com/bethropolis/reflow/internal/align"
	"github.com/bethropolis/reflow/internal/editor"
	"github.com/bethropolis/reflow/internal/gobject"
	"github.com/bethropolis/reflow/internal/reflow"
)

func (d *Dispatcher) breakFunction(_ context.Context, v *editor.View) error {
	call, err := reflow.BreakCall(v.Buffer(), v.Classifier(), v.Cursor(), reflow.Options{
		SpaceBeforeParen: d.opts.SpaceBeforeParen,
	})
	if err != nil {
		return err
	}
	d.report("Broke call over %d lines", len(call.Commas)+1)
	return nil
}

func (d *Dispatcher) alignDeclarations(_ context.Context, v *editor.View) error {
	region := align.Region{Start: v.Cursor()}
	if start, end, ok := v.Selection(); ok {
		region = align.Region{Start: start, End: end, Selected: true}
	}

	batch, err := align.Parse(v.Buffer(), v.Classifier(), region)
	if err != nil {
		return err
	}
	n := len(batch.Decls)

	res, err := align.Align(batch)
	if err != nil {
		return err
	}
	if res.Selected {
		v.SelectRange(res.Start, res.End)
	} else {
		v.PlaceCursor(res.Start)
	}
	d.report("Aligned %d declaration(s)", n)
	return nil
}

// addProperty runs gobj.add-prop [name] [type].
func (d *Dispatcher) addProperty(ctx context.Context, v *editor.View, args []string) error {
	opts := gobject.Options{DefaultFlags: d.opts.DefaultFlags}
	if len(args) > 0 {
		opts.Name = args[0]
	}
	if len(args) > 1 {
		opts.Type = args[1]
	}

	w, err := gobject.New(v.Buffer(), d.prompter, opts)
	if err != nil {
		return err
	}
	if err := w.Run(ctx); err != nil {
		return err
	}
	spec := w.Spec()
	d.report("Added %s property '%s' (%s)", spec.Kind, spec.Name, spec.Enum())
	return nil
}
