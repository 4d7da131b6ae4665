package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stepanic/flutter-firebase-starter/internal/dto"
	"github.com/stepanic/flutter-firebase-starter/internal/errs"
	"github.com/stepanic/flutter-firebase-starter/pkg/helpers"
)

type destroyFakeEngine struct {
	stacks    map[string]bool
	protected map[string]bool
	calls     []string
}

func (f *destroyFakeEngine) Exists(_ context.Context, name string, _ dto.StackKind) (bool, error) {
	return f.stacks[name], nil
}

func (f *destroyFakeEngine) Protected(_ context.Context, name string, _ dto.StackKind) (bool, error) {
	return f.protected[name], nil
}

func (f *destroyFakeEngine) Unprotect(_ context.Context, name string, _ dto.StackKind) error {
	f.calls = append(f.calls, "unprotect:"+name)
	f.protected[name] = false
	return nil
}

func (f *destroyFakeEngine) Destroy(_ context.Context, name string, _ dto.StackKind) (dto.StackResult, error) {
	f.calls = append(f.calls, "destroy:"+name)
	return dto.StackResult{Changes: map[string]int{"delete": 3}}, nil
}

func TestDestroyMissingStateFails(t *testing.T) {
	engine := &destroyFakeEngine{stacks: map[string]bool{}, protected: map[string]bool{}}
	confirmer := &fakeConfirmer{answer: true}
	svc := NewDestroyService(engine, confirmer)

	_, err := svc.Destroy(helpers.TestCtx(), "acme-qa", DestroyOptions{})

	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(engine.calls) != 0 || confirmer.calls != 0 {
		t.Fatalf("nothing may happen for a stack without state: %v", engine.calls)
	}
}

func TestDestroyRemovesDataStackFirst(t *testing.T) {
	engine := &destroyFakeEngine{
		stacks:    map[string]bool{"acme-dev": true, "acme-dev-data": true},
		protected: map[string]bool{},
	}
	svc := NewDestroyService(engine, &fakeConfirmer{answer: true})

	res, err := svc.Destroy(helpers.TestCtx(), "acme-dev", DestroyOptions{})
	if err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}

	want := []string{"destroy:acme-dev-data", "destroy:acme-dev"}
	if !reflect.DeepEqual(engine.calls, want) {
		t.Fatalf("calls = %v, want %v", engine.calls, want)
	}
	if res.Changes["delete"] != 6 {
		t.Fatalf("changes = %v", res.Changes)
	}
}

func TestDestroyProtectedRequiresForce(t *testing.T) {
	engine := &destroyFakeEngine{
		stacks:    map[string]bool{"acme-prod": true},
		protected: map[string]bool{"acme-prod": true},
	}
	svc := NewDestroyService(engine, &fakeConfirmer{answer: true})

	_, err := svc.Destroy(helpers.TestCtx(), "acme-prod", DestroyOptions{Yes: true})
	var pe *errs.ProtectedError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProtectedError, got %v", err)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("protected stack touched without --force: %v", engine.calls)
	}

	if _, err := svc.Destroy(helpers.TestCtx(), "acme-prod", DestroyOptions{Yes: true, Force: true}); err != nil {
		t.Fatalf("forced destroy returned error: %v", err)
	}
	want := []string{"unprotect:acme-prod", "destroy:acme-prod"}
	if !reflect.DeepEqual(engine.calls, want) {
		t.Fatalf("calls = %v, want %v", engine.calls, want)
	}
}

func TestDestroyDeclined(t *testing.T) {
	engine := &destroyFakeEngine{stacks: map[string]bool{"acme-dev": true}, protected: map[string]bool{}}
	svc := NewDestroyService(engine, &fakeConfirmer{answer: false})

	_, err := svc.Destroy(helpers.TestCtx(), "acme-dev", DestroyOptions{})
	if !errors.Is(err, errs.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if len(engine.calls) != 0 {
		t.Fatalf("declined destroy touched stacks: %v", engine.calls)
	}
}
