package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsAlreadyExists(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", NewAlreadyExistsError("database exists"), true},
		{"wrapped typed", fmt.Errorf("up: %w", NewAlreadyExistsError("x")), true},
		{"gcp 409", errors.New("googleapi: Error 409: Database already exists. Please use another database_id"), true},
		{"grpc code", errors.New("rpc error: code = AlreadyExists desc = bucket"), true},
		{"other", errors.New("permission denied"), false},
	}
	for _, tc := range cases {
		if got := IsAlreadyExists(tc.err); got != tc.want {
			t.Fatalf("%s: IsAlreadyExists = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	d := Describe(fmt.Errorf("load: %w", NewValidationError("githubRepo", "is required")))
	if d.Code != "invalid_config" || d.Message != "githubRepo: is required" {
		t.Fatalf("unexpected description: %+v", d)
	}

	d = Describe(NewAuthenticationError("pulumi", "run `pulumi login`", nil))
	if d.Code != "not_authenticated" || d.Hint != "run `pulumi login`" {
		t.Fatalf("unexpected description: %+v", d)
	}

	cause := errors.New("quota exceeded")
	pe := NewProvisioningError("prod", "acme-prod", cause)
	if !errors.Is(pe, cause) {
		t.Fatalf("ProvisioningError does not unwrap to its cause")
	}
	if Describe(pe).Code != "provisioning_failed" {
		t.Fatalf("unexpected code for provisioning error")
	}

	if Describe(errors.New("boom")).Code != "internal_error" {
		t.Fatalf("unexpected code for plain error")
	}
}

func TestDescribeAborted(t *testing.T) {
	if d := Describe(fmt.Errorf("deploy: %w", ErrAborted)); d.Code != "aborted" {
		t.Fatalf("unexpected description: %+v", d)
	}
}
