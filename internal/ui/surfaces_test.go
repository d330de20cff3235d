package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

// overlapPrompter fails the test if two surfaces are ever active at once.
type overlapPrompter struct {
	t      *testing.T
	active atomic.Int32
	shown  []string
	mu     sync.Mutex
}

func (p *overlapPrompter) enter(kind string) {
	if p.active.Add(1) != 1 {
		p.t.Errorf("%s presented while another surface is active", kind)
	}
	p.mu.Lock()
	p.shown = append(p.shown, kind)
	p.mu.Unlock()
}

func (p *overlapPrompter) exit() { p.active.Add(-1) }

func (p *overlapPrompter) Dialog(context.Context, DialogOptions) (int, error) {
	p.enter("dialog")
	defer p.exit()
	return 0, nil
}

func (p *overlapPrompter) Menu(context.Context, MenuOptions) (int, error) {
	p.enter("menu")
	defer p.exit()
	return 1, nil
}

func (p *overlapPrompter) Input(context.Context, InputOptions) (string, error) {
	p.enter("input")
	defer p.exit()
	return "typed", nil
}

func (p *overlapPrompter) Picker(context.Context, PickerOptions) ([]int, error) {
	p.enter("picker")
	defer p.exit()
	return []int{0, 2}, nil
}

func TestSurfacesNeverOverlap(t *testing.T) {
	p := &overlapPrompter{t: t}
	s := NewSurfaces(p)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(4)
		go func() { defer wg.Done(); _, _ = s.ShowDialog(ctx, DialogOptions{Message: "m"}) }()
		go func() { defer wg.Done(); _, _ = s.ShowMenu(ctx, MenuOptions{Items: []string{"a"}}) }()
		go func() { defer wg.Done(); _, _ = s.RequestInput(ctx, InputOptions{Prompt: ">"}) }()
		go func() { defer wg.Done(); _, _ = s.ShowPicker(ctx, PickerOptions{Items: []string{"a"}}) }()
	}
	wg.Wait()

	if len(p.shown) != 32 {
		t.Errorf("presented %d surfaces, want 32", len(p.shown))
	}
	if !s.Gate().Idle() {
		t.Error("gate should be idle once all surfaces settle")
	}
}

func TestSurfacesResults(t *testing.T) {
	p := &overlapPrompter{t: t}
	s := NewSurfaces(p)
	ctx := context.Background()

	if choice, err := s.ShowDialog(ctx, DialogOptions{}); err != nil || choice != 0 {
		t.Errorf("ShowDialog = (%d, %v), want (0, nil)", choice, err)
	}
	if choice, err := s.ShowMenu(ctx, MenuOptions{}); err != nil || choice != 1 {
		t.Errorf("ShowMenu = (%d, %v), want (1, nil)", choice, err)
	}
	if text, err := s.RequestInput(ctx, InputOptions{}); err != nil || text != "typed" {
		t.Errorf("RequestInput = (%q, %v), want (typed, nil)", text, err)
	}
	if picked, err := s.ShowPicker(ctx, PickerOptions{}); err != nil || len(picked) != 2 {
		t.Errorf("ShowPicker = (%v, %v), want two indices", picked, err)
	}
}

func TestSurfacesCanceled(t *testing.T) {
	p := &overlapPrompter{t: t}
	s := NewSurfaces(p)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if choice, err := s.ShowDialog(ctx, DialogOptions{}); err != ErrCanceled || choice != -1 {
		t.Errorf("ShowDialog = (%d, %v), want (-1, ErrCanceled)", choice, err)
	}
	if len(p.shown) != 0 {
		t.Error("no surface should be presented for a canceled caller")
	}
}
