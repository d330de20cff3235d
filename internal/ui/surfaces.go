package ui

import "context"

// Prompter is implemented by the host-side presentation layer. Each method
// presents one modal surface and blocks until the user responds or the
// context is done. Visual rendering, layout and localization all belong to
// the implementation, not to this package.
type Prompter interface {
	// Dialog presents a message with action buttons and returns the index
	// of the chosen button, or -1 if dismissed.
	Dialog(ctx context.Context, opts DialogOptions) (int, error)

	// Menu presents a flat list and returns the index of the chosen entry,
	// or -1 if dismissed.
	Menu(ctx context.Context, opts MenuOptions) (int, error)

	// Input presents a single-line text prompt and returns the entered
	// text. An empty string with nil error means the user submitted
	// nothing.
	Input(ctx context.Context, opts InputOptions) (string, error)

	// Picker presents a multi-select list and returns the chosen indices.
	Picker(ctx context.Context, opts PickerOptions) ([]int, error)
}

// DialogOptions configures a message dialog.
type DialogOptions struct {
	Title   string
	Message string
	Buttons []string
}

// MenuOptions configures a single-select menu.
type MenuOptions struct {
	Title string
	Items []string
}

// InputOptions configures a text input prompt.
type InputOptions struct {
	Prompt  string
	Default string
}

// PickerOptions configures a multi-select picker.
type PickerOptions struct {
	Title string
	Items []string
}

// Surfaces exposes the modal surfaces behind a shared gate. Every call is
// one gate turn, so two surfaces can never be on screen together regardless
// of how callers interleave.
type Surfaces struct {
	gate     Gate
	prompter Prompter
}

// NewSurfaces creates the serialized surface front end over a prompter.
func NewSurfaces(p Prompter) *Surfaces {
	return &Surfaces{prompter: p}
}

// Gate returns the underlying gate for callers that need to serialize a
// bespoke interaction with the standard surfaces.
func (s *Surfaces) Gate() *Gate {
	return &s.gate
}

// ShowDialog presents a dialog, serialized with all other surfaces.
// Returns -1 and ErrCanceled when ctx is canceled before the turn begins.
func (s *Surfaces) ShowDialog(ctx context.Context, opts DialogOptions) (int, error) {
	choice, err := Run(&s.gate, ctx, func(ctx context.Context) (int, error) {
		return s.prompter.Dialog(ctx, opts)
	})
	if err != nil {
		return -1, err
	}
	return choice, nil
}

// ShowMenu presents a menu, serialized with all other surfaces.
func (s *Surfaces) ShowMenu(ctx context.Context, opts MenuOptions) (int, error) {
	choice, err := Run(&s.gate, ctx, func(ctx context.Context) (int, error) {
		return s.prompter.Menu(ctx, opts)
	})
	if err != nil {
		return -1, err
	}
	return choice, nil
}

// RequestInput presents a text prompt, serialized with all other surfaces.
func (s *Surfaces) RequestInput(ctx context.Context, opts InputOptions) (string, error) {
	return Run(&s.gate, ctx, func(ctx context.Context) (string, error) {
		return s.prompter.Input(ctx, opts)
	})
}

// ShowPicker presents a multi-select picker, serialized with all other
// surfaces.
func (s *Surfaces) ShowPicker(ctx context.Context, opts PickerOptions) ([]int, error) {
	return Run(&s.gate, ctx, func(ctx context.Context) ([]int, error) {
		return s.prompter.Picker(ctx, opts)
	})
}
