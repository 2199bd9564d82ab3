package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func mustRegistry(t *testing.T, jobs ...Job) *Registry {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func TestRegistryKeepsOrderAndCopies(t *testing.T) {
	registry := mustRegistry(t, nil, &stubJob{name: "a"})
	jobB := &stubJob{name: "b"}
	if err := registry.Register(jobB); err != nil {
		t.Fatalf("register b: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 || jobs[0].Name() != "a" || jobs[1] != jobB {
		t.Fatalf("unexpected jobs %+v", jobs)
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatalf("internal slice leaked")
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	var registry Registry
	if err := registry.Register(&stubJob{name: "outbox-retention"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := registry.Register(&stubJob{name: "outbox-retention"}); err == nil {
		t.Fatal("expected duplicate error")
	}
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected one job, got %d", len(registry.Jobs()))
	}
}

func TestNewRegistryReportsDuplicateNames(t *testing.T) {
	registry, err := NewRegistry(&stubJob{name: "outbox-retention"}, &stubJob{name: "outbox-retention"})
	if err == nil || registry != nil {
		t.Fatalf("expected duplicate error, got registry=%v err=%v", registry, err)
	}
}
