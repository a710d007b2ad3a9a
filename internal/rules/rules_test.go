package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/harborbank/user-service/internal/models"
	"github.com/harborbank/user-service/internal/outcome"
)

// ---- mock implementations ----

type mockReader struct {
	emailExistsFn func(string) (bool, error)
	phoneExistsFn func(string, string) (bool, error)
}

func (m *mockReader) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(email)
	}
	return false, nil
}

func (m *mockReader) ExistsByPhoneExcluding(ctx context.Context, phone, excludeID string) (bool, error) {
	if m.phoneExistsFn != nil {
		return m.phoneExistsFn(phone, excludeID)
	}
	return false, nil
}

// stubRule records whether it ran and returns a canned outcome.
type stubRule struct {
	ran    bool
	result outcome.Outcome[outcome.Void]
}

func (r *stubRule) Check(ctx context.Context, candidate *models.User) outcome.Outcome[outcome.Void] {
	r.ran = true
	return r.result
}

// ---- tests ----

func TestPipelineShortCircuits(t *testing.T) {
	first := &stubRule{result: outcome.OK(outcome.Void{})}
	second := &stubRule{result: outcome.Fail[outcome.Void]("EMAIL_ALREADY_EXISTS", "Email is not available", "already registered")}
	third := &stubRule{result: outcome.Fail[outcome.Void]("PHONE_ALREADY_EXISTS", "Phone number is not available")}

	result := Pipeline{first, second, third}.Run(context.Background(), &models.User{})

	if !first.ran || !second.ran {
		t.Error("rules before the failure must run")
	}
	if third.ran {
		t.Error("rules after the first failure must not run")
	}
	if result.Code() != "EMAIL_ALREADY_EXISTS" {
		t.Errorf("expected the first failure verbatim, got code %q", result.Code())
	}
	if d := result.Details(); len(d) != 1 || d[0] != "already registered" {
		t.Errorf("failure details not returned verbatim: %v", d)
	}
}

func TestPipelineAllPass(t *testing.T) {
	first := &stubRule{result: outcome.OK(outcome.Void{})}
	second := &stubRule{result: outcome.OK(outcome.Void{})}

	result := Pipeline{first, second}.Run(context.Background(), &models.User{})

	if !result.Success() {
		t.Fatalf("expected success, got %q", result.Code())
	}
	if !first.ran || !second.ran {
		t.Error("all rules must run when none fail")
	}
}

func TestEmptyPipeline(t *testing.T) {
	if result := (Pipeline{}).Run(context.Background(), &models.User{}); !result.Success() {
		t.Errorf("empty pipeline must succeed, got %q", result.Code())
	}
}

func TestUniqueEmail(t *testing.T) {
	tests := []struct {
		name         string
		exists       bool
		err          error
		expectedCode string
	}{
		{name: "email free", exists: false, expectedCode: ""},
		{name: "email taken", exists: true, expectedCode: CodeEmailExists},
		// A failed lookup is an operational fault, not a business failure;
		// the command service re-codes it under its own operation.
		{name: "lookup fault", err: errors.New("db down"), expectedCode: "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReader{emailExistsFn: func(string) (bool, error) { return tt.exists, tt.err }}
			rule := UniqueEmail{Repo: repo}
			result := rule.Check(context.Background(), &models.User{Email: "a@x.com"})
			if result.Code() != tt.expectedCode {
				t.Errorf("expected code %q, got %q", tt.expectedCode, result.Code())
			}
			if tt.err != nil && !result.IsFault() {
				t.Error("a lookup failure must be marked as an operational fault")
			}
		})
	}
}

func TestUniqueEmailDetailMentionsAlreadyRegistered(t *testing.T) {
	repo := &mockReader{emailExistsFn: func(string) (bool, error) { return true, nil }}
	result := UniqueEmail{Repo: repo}.Check(context.Background(), &models.User{Email: "a@x.com"})
	details := result.Details()
	if len(details) == 0 {
		t.Fatal("expected a human-readable detail")
	}
	if want := `The email address "a@x.com" is already registered`; details[0] != want {
		t.Errorf("expected detail %q, got %q", want, details[0])
	}
}

func TestUniquePhone(t *testing.T) {
	tests := []struct {
		name         string
		phone        string
		exists       bool
		expectedCode string
	}{
		{name: "phone free", phone: "+441234567890", exists: false, expectedCode: ""},
		{name: "phone taken", phone: "+441234567890", exists: true, expectedCode: CodePhoneExists},
		{name: "absent phone never conflicts", phone: "", exists: true, expectedCode: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReader{phoneExistsFn: func(string, string) (bool, error) { return tt.exists, nil }}
			rule := UniquePhone{Repo: repo}
			result := rule.Check(context.Background(), &models.User{PhoneNumber: tt.phone})
			if result.Code() != tt.expectedCode {
				t.Errorf("expected code %q, got %q", tt.expectedCode, result.Code())
			}
		})
	}
}

func TestUniquePhonePassesExcludeID(t *testing.T) {
	var gotExclude string
	repo := &mockReader{phoneExistsFn: func(phone, excludeID string) (bool, error) {
		gotExclude = excludeID
		return false, nil
	}}
	rule := UniquePhone{Repo: repo, ExcludeID: "usr-self"}
	rule.Check(context.Background(), &models.User{PhoneNumber: "+441234567890"})
	if gotExclude != "usr-self" {
		t.Errorf("expected exclude ID usr-self, got %q", gotExclude)
	}
}
