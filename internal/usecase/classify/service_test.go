package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

type mockCompleter struct {
	out     string
	err     error
	gotStep domain.Step
	gotUser string
}

func (m *mockCompleter) Complete(_ context.Context, c domain.Completion) (string, error) {
	m.gotStep = c.Step
	m.gotUser = c.User
	return m.out, m.err
}

func typesEqual(got []domain.ContentType, want ...domain.ContentType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestClassify_Labels(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []domain.ContentType
	}{
		{"job", "job", []domain.ContentType{domain.TypeJob}},
		{"profile", "profile", []domain.ContentType{domain.TypeProfile}},
		{"both", "both", domain.AllTypes()},
		{"uppercase", "JOB", []domain.ContentType{domain.TypeJob}},
		{"whitespace", "  profile\n", []domain.ContentType{domain.TypeProfile}},
		{"quoted", `"job"`, []domain.ContentType{domain.TypeJob}},
		{"trailing period", "both.", domain.AllTypes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockCompleter{out: tt.out}
			res := New(llm).Classify(context.Background(), "some query")
			if !typesEqual(res.Types, tt.want...) {
				t.Errorf("types = %v, want %v", res.Types, tt.want)
			}
			if res.Degraded {
				t.Error("recognized label must not be degraded")
			}
			if llm.gotStep != domain.StepClassify {
				t.Errorf("step = %q, want %q", llm.gotStep, domain.StepClassify)
			}
		})
	}
}

func TestClassify_UnrecognizedLabel_FailsOpen(t *testing.T) {
	llm := &mockCompleter{out: "I think this is about jobs"}
	res := New(llm).Classify(context.Background(), "some query")

	if !typesEqual(res.Types, domain.AllTypes()...) {
		t.Errorf("types = %v, want all types", res.Types)
	}
	if !res.Degraded {
		t.Error("unrecognized label should mark the result degraded")
	}
}

func TestClassify_ProviderError_FailsOpen(t *testing.T) {
	cause := errors.New("provider down")
	llm := &mockCompleter{err: cause}
	res := New(llm).Classify(context.Background(), "some query")

	if !typesEqual(res.Types, domain.AllTypes()...) {
		t.Errorf("types = %v, want all types", res.Types)
	}
	if !res.Degraded {
		t.Error("provider error should mark the result degraded")
	}
	if !errors.Is(res.Cause, cause) {
		t.Errorf("cause = %v, want %v", res.Cause, cause)
	}
}

func TestClassify_NeverEmpty(t *testing.T) {
	outputs := []string{"", "job", "profile", "both", "garbage", "  "}
	for _, out := range outputs {
		res := New(&mockCompleter{out: out}).Classify(context.Background(), "q")
		if len(res.Types) == 0 {
			t.Errorf("output %q produced empty type set", out)
		}
	}
}

func TestClassify_PassesQueryThrough(t *testing.T) {
	llm := &mockCompleter{out: "job"}
	New(llm).Classify(context.Background(), "find backend roles")
	if llm.gotUser != "find backend roles" {
		t.Errorf("user message = %q", llm.gotUser)
	}
}
